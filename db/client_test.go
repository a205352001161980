package db_test

import (
	"database/sql"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeptools/gw-sqlwrap/db"
	"github.com/zeptools/gw-sqlwrap/db/sqldb"
	"github.com/zeptools/gw-sqlwrap/db/sqldb/impls/sqlite"
)

func TestCloseClient(t *testing.T) {
	logger := hclog.NewNullLogger()

	require.NoError(t, db.CloseClient[*sql.Conn](logger, "none", nil))

	conn := sqldb.NewConn(&sqldb.Conf{Type: sqlite.Name})
	require.NoError(t, conn.Init())
	require.NoError(t, conn.Connect(t.Context()))
	require.NotNil(t, conn.DBHandle())

	require.NoError(t, db.CloseClient[*sql.Conn](logger, "sqlite", conn))
	assert.Nil(t, conn.DBHandle())
	// closing twice is harmless
	require.NoError(t, db.CloseClient[*sql.Conn](logger, "sqlite", conn))
}
