// Package mysql registers the "mysql" dialect backed by github.com/go-sql-driver/mysql.
package mysql

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/zeptools/gw-sqlwrap/db/sqldb"
)

const Name = "mysql"

var Dialect = &sqldb.Dialect{
	Name:              Name,
	DriverName:        "mysql",
	PlaceholderPrefix: '?',
	DSN:               DSN,
	ErrorInfo:         ErrorInfo,
}

func init() {
	sqldb.RegisterDialect(Dialect)
}

// DSN builds a go-sql-driver DSN from conf. An empty host leaves the driver
// default (127.0.0.1:3306); a host starting with '/' is a unix socket path.
func DSN(conf *sqldb.Conf) (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = conf.User
	cfg.Passwd = conf.PW
	cfg.DBName = conf.DB
	cfg.ParseTime = true
	switch {
	case strings.HasPrefix(conf.Host, "/"):
		cfg.Net = "unix"
		cfg.Addr = conf.Host
	case conf.Host != "":
		cfg.Net = "tcp"
		port := conf.Port
		if port == 0 {
			port = 3306
		}
		cfg.Addr = net.JoinHostPort(conf.Host, strconv.Itoa(port))
	case conf.Port != 0:
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort("127.0.0.1", strconv.Itoa(conf.Port))
	}
	if conf.TZ != "" {
		loc, err := time.LoadLocation(conf.TZ)
		if err != nil {
			return "", fmt.Errorf("mysql: connection timezone: %w", err)
		}
		cfg.Loc = loc
	}
	return cfg.FormatDSN(), nil
}

// ErrorInfo decodes a *mysql.MySQLError.
func ErrorInfo(err error) (sqldb.ErrInfo, bool) {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return sqldb.ErrInfo{}, false
	}
	info := sqldb.ErrInfo{
		Number:  uint(myErr.Number),
		Message: myErr.Message,
	}
	if myErr.SQLState != [5]byte{} {
		info.SQLState = string(myErr.SQLState[:])
	}
	return info, true
}
