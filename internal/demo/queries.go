package demo

import (
	"embed"
	"fmt"

	"github.com/zeptools/gw-sqlwrap/db/sqldb"
)

//go:embed sql
var sqlFS embed.FS

const queryGroup = "demo"

// queries loads the demo statements for the connection's dialect.
func queries(conn *sqldb.Conn) (*sqldb.RawStore, error) {
	store := sqldb.NewRawStore()
	if _, err := store.Load(sqlFS, queryGroup, conn.Dialect().Name); err != nil {
		return nil, fmt.Errorf("load queries: %w", err)
	}
	return store, nil
}

// query returns one statement; a missing one names the dialect.
func query(store *sqldb.RawStore, conn *sqldb.Conn, name string) (string, error) {
	q, err := store.Lookup(queryGroup, name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", conn.Dialect().Name, err)
	}
	return q, nil
}
