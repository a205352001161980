// Package demo holds the checks run by cmd/sqlwrap-demo: a plain text query
// and a prepared insert/select round trip through every wrapper type.
package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/zeptools/gw-sqlwrap/db/sqldb"
)

// Failure is a failed step with the last error of the object that failed.
type Failure struct {
	Step   string // e.g. "select: fetch row"
	Object string // Conn or Stmt
	Msg    string // LastError() at the time of failure, "" if none
	Err    error
}

func (f *Failure) Error() string {
	msg := f.Msg
	switch {
	case msg != "":
	case f.Err != nil:
		msg = f.Err.Error()
	default:
		msg = "(null)"
	}
	return fmt.Sprintf("%s: %s error: %s", f.Step, f.Object, msg)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func connFailure(step string, conn *sqldb.Conn, err error) error {
	return &Failure{Step: step, Object: "Conn", Msg: conn.LastError(), Err: err}
}

func stmtFailure(step string, stmt *sqldb.Stmt, err error) error {
	return &Failure{Step: step, Object: "Stmt", Msg: stmt.LastError(), Err: err}
}

// InitConn creates, initializes and connects a Conn. On failure the Conn is
// already closed.
func InitConn(ctx context.Context, conf *sqldb.Conf, logger hclog.Logger) (*sqldb.Conn, error) {
	conn := sqldb.NewConn(conf, sqldb.WithLogger(logger))
	if err := conn.Init(); err != nil {
		f := connFailure("init", conn, err)
		_ = conn.Close()
		return nil, f
	}
	if err := conn.Connect(ctx); err != nil {
		f := connFailure("connect", conn, err)
		_ = conn.Close()
		return nil, f
	}
	return conn, nil
}

// Run runs every check, logging each failure; the error aggregates them.
func Run(ctx context.Context, conn *sqldb.Conn, logger hclog.Logger) error {
	var result *multierror.Error
	checks := []struct {
		name string
		fn   func(context.Context, *sqldb.Conn) error
	}{
		{"select", Select},
		{"insert", Insert},
	}
	for _, check := range checks {
		if err := check.fn(ctx, conn); err != nil {
			var f *Failure
			if errors.As(err, &f) {
				logger.Error(f.Object+" error", "check", check.name, "step", f.Step, "error", f.Error())
			} else {
				logger.Error("check failed", "check", check.name, "error", err)
			}
			result = multierror.Append(result, err)
			continue
		}
		logger.Info("check passed", "check", check.name)
	}
	return result.ErrorOrNil()
}
