package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeptools/gw-sqlwrap/db/sqldb"
	"github.com/zeptools/gw-sqlwrap/db/sqldb/impls/mysql"
	"github.com/zeptools/gw-sqlwrap/db/sqldb/impls/pgsql"
	"github.com/zeptools/gw-sqlwrap/db/sqldb/impls/sqlite"
)

func TestQueriesPerDialect(t *testing.T) {
	for _, dialect := range []string{mysql.Name, pgsql.Name, sqlite.Name} {
		t.Run(dialect, func(t *testing.T) {
			conn := sqldb.NewConn(&sqldb.Conf{Type: dialect, DB: "demo"})
			require.NoError(t, conn.Init())
			defer conn.Close()

			store, err := queries(conn)
			require.NoError(t, err)
			for _, name := range []string{"select", "drop_table", "create_table", "insert", "select_all"} {
				q, err := query(store, conn, name)
				require.NoError(t, err, name)
				assert.NotEmpty(t, q, name)
			}
		})
	}
}

func TestQueriesDialectOverride(t *testing.T) {
	conn := sqldb.NewConn(&sqldb.Conf{Type: pgsql.Name, DB: "demo"})
	require.NoError(t, conn.Init())
	defer conn.Close()

	store, err := queries(conn)
	require.NoError(t, err)
	q, err := query(store, conn, "drop_table")
	require.NoError(t, err)
	assert.Equal(t, `DROP TABLE IF EXISTS "aaa"`, q)
}
