// Package pgsql registers the "pgsql" dialect backed by pgx's database/sql driver.
package pgsql

import (
	"errors"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/zeptools/gw-sqlwrap/db/sqldb"
)

const Name = "pgsql"

var Dialect = &sqldb.Dialect{
	Name:              Name,
	DriverName:        "pgx",
	PlaceholderPrefix: '$',
	DSN:               DSN,
	ErrorInfo:         ErrorInfo,
}

func init() {
	sqldb.RegisterDialect(Dialect)
}

// DSN builds a postgres:// URL from conf.
func DSN(conf *sqldb.Conf) (string, error) {
	u := url.URL{Scheme: "postgres", Path: "/" + conf.DB}
	if conf.User != "" {
		if conf.PW != "" {
			u.User = url.UserPassword(conf.User, conf.PW)
		} else {
			u.User = url.User(conf.User)
		}
	}
	host := conf.Host
	if host == "" {
		host = "localhost"
	}
	port := conf.Port
	if port == 0 {
		port = 5432
	}
	u.Host = net.JoinHostPort(host, strconv.Itoa(port))
	if conf.TZ != "" {
		q := u.Query()
		q.Set("timezone", conf.TZ)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// ErrorInfo decodes a *pgconn.PgError. Postgres has no numeric error codes.
func ErrorInfo(err error) (sqldb.ErrInfo, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return sqldb.ErrInfo{}, false
	}
	return sqldb.ErrInfo{
		SQLState: pgErr.Code,
		Message:  pgErr.Message,
	}, true
}
