// Package sqlite registers the "sqlite" dialect backed by modernc.org/sqlite.
package sqlite

import (
	"errors"

	"github.com/zeptools/gw-sqlwrap/db/sqldb"
	"modernc.org/sqlite"
)

const Name = "sqlite"

var Dialect = &sqldb.Dialect{
	Name:              Name,
	DriverName:        "sqlite",
	PlaceholderPrefix: 0,
	DSN:               DSN,
	ErrorInfo:         ErrorInfo,
}

func init() {
	sqldb.RegisterDialect(Dialect)
}

// DSN is the database file named by conf.DB, in memory when empty.
func DSN(conf *sqldb.Conf) (string, error) {
	if conf.DB == "" {
		return ":memory:", nil
	}
	return conf.DB, nil
}

// ErrorInfo decodes a *sqlite.Error; the number is the extended result code.
func ErrorInfo(err error) (sqldb.ErrInfo, bool) {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return sqldb.ErrInfo{}, false
	}
	return sqldb.ErrInfo{
		Number:  uint(liteErr.Code()),
		Message: liteErr.Error(),
	}, true
}
