// Command sqlwrap-demo connects with the SQLWRAP_DB_* environment and runs the
// demo checks against the server.
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/kelseyhightower/envconfig"
	"github.com/zeptools/gw-sqlwrap/db"
	"github.com/zeptools/gw-sqlwrap/db/sqldb"
	_ "github.com/zeptools/gw-sqlwrap/db/sqldb/impls/mysql"
	_ "github.com/zeptools/gw-sqlwrap/db/sqldb/impls/pgsql"
	_ "github.com/zeptools/gw-sqlwrap/db/sqldb/impls/sqlite"
	"github.com/zeptools/gw-sqlwrap/internal/demo"
)

const envPrefix = "SQLWRAP"

type config struct {
	LogLevel string `envconfig:"SQLWRAP_LOG_LEVEL" default:"info"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var c config
	if err := envconfig.Process("", &c); err != nil {
		hclog.Default().Error("bad environment", "error", err)
		return 2
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "sqlwrap-demo",
		Level:  hclog.LevelFromString(c.LogLevel),
		Output: os.Stderr,
	})

	conf, err := sqldb.LoadConfFromEnv(envPrefix)
	if err != nil {
		logger.Error("bad database environment", "error", err)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := demo.InitConn(ctx, conf, logger)
	if err != nil {
		logger.Error("MySQL error", "error", err)
		return 1
	}

	code := 0
	if err := demo.Run(ctx, conn, logger); err != nil {
		code = 1
	}
	if err := db.CloseClient[*sql.Conn](logger, "sqlwrap", conn); err != nil {
		code = 1
	}
	return code
}
