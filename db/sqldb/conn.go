package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/zeptools/gw-sqlwrap/db"
)

// AutoBind makes Prepare size the parameter slots from the '?' count of the query.
const AutoBind = -1

// Conn is one database session: NewConn -> Init -> Connect -> ... -> Close.
// A Conn and everything created from it is not safe for concurrent use.
type Conn struct {
	errState

	Conf *Conf

	logger hclog.Logger

	// handle fields are implementation details, not exported
	db   *sql.DB
	conn *sql.Conn
	dsn  string

	pending  *sql.Rows // result set left by RealQuery
	children owned     // statements and results created from this Conn

	affectedRows int64
	insertID     int64
	closed       bool
}

// Ensure sqldb.Conn implements db.Client interface
var _ db.Client[*sql.Conn] = (*Conn)(nil)

func NewConn(conf *Conf, opts ...Option) *Conn {
	if conf == nil {
		conf = &Conf{}
	}
	c := &Conn{
		Conf:         conf,
		logger:       hclog.NewNullLogger(),
		children:     owned{},
		affectedRows: -1,
		insertID:     -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ClearErr()
	return c
}

// Init resolves the dialect and allocates the native handle. It does not
// talk to the server; Connect does.
func (c *Conn) Init() error {
	if c.closed {
		return ErrClosed
	}
	if c.db != nil {
		return nil
	}
	d, err := LookupDialect(c.Conf.Type)
	if err != nil {
		c.setErr("failed to perform init: " + err.Error())
		return err
	}
	c.dialect = d
	if c.dsn, err = d.dataSourceName(c.Conf); err != nil {
		c.setErr("failed to perform init: " + err.Error())
		return fmt.Errorf("init %s: %w", d.Name, err)
	}
	handle, err := sql.Open(d.DriverName, c.dsn)
	if err != nil {
		c.setErr("failed to perform init: " + err.Error())
		return fmt.Errorf("init %s: %w", d.Name, err)
	}
	// one session per Conn, no pooling
	handle.SetMaxOpenConns(1)
	handle.SetMaxIdleConns(1)
	c.db = handle
	c.logger.Debug("handle initialized", "type", d.Name)
	return nil
}

// Connect opens the session and checks it with a ping.
func (c *Conn) Connect(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}
	if c.db == nil {
		c.setErr("connect called before init")
		return ErrNotConnected
	}
	if c.conn != nil {
		return nil
	}
	conn, err := c.db.Conn(ctx)
	if c.track(err) != nil {
		c.setDriverErrFallback("failed to connect")
		return fmt.Errorf("connect: %w", err)
	}
	if c.track(conn.PingContext(ctx)) != nil {
		err = c.driver
		c.setDriverErrFallback("failed to connect")
		_ = conn.Close()
		return fmt.Errorf("connect: %w", err)
	}
	c.conn = conn
	c.logger.Info("connected", "type", c.dialect.Name, "host", c.Conf.Host, "db", c.Conf.DB)
	return nil
}

// session returns the pinned connection or why there is none.
func (c *Conn) session() (*sql.Conn, error) {
	if c.closed {
		c.setErr(ErrClosed.Error())
		return nil, ErrClosed
	}
	if c.conn == nil {
		c.setErr(ErrNotConnected.Error())
		return nil, ErrNotConnected
	}
	return c.conn, nil
}

func (c *Conn) Ping(ctx context.Context) error {
	conn, err := c.session()
	if err != nil {
		return err
	}
	if c.track(conn.PingContext(ctx)) != nil {
		return fmt.Errorf("ping: %w", c.driver)
	}
	return nil
}

// Prepare prepares query with nrBind parameter slots (AutoBind to count them).
// On failure LastError holds the server's message.
func (c *Conn) Prepare(ctx context.Context, nrBind int, query string) (*Stmt, error) {
	conn, err := c.session()
	if err != nil {
		return nil, err
	}
	if nrBind < 0 {
		nrBind = CountPlaceholders(query)
	}
	st, err := conn.PrepareContext(ctx, c.dialect.rewrite(query))
	if c.track(err) != nil {
		c.setDriverErrFallback("failed to prepare statement")
		return nil, fmt.Errorf("prepare: %w", err)
	}
	s := newStmt(c, st, nrBind)
	c.children.add(s)
	return s, nil
}

// RealQuery runs a text query. A result set, if the query produced one,
// stays pending until StoreResult or UseResult picks it up.
func (c *Conn) RealQuery(ctx context.Context, query string) error {
	conn, err := c.session()
	if err != nil {
		return err
	}
	if err := c.discardPending(); err != nil {
		c.logger.Warn("discarding unread result failed", "error", err)
	}
	rows, err := conn.QueryContext(ctx, c.dialect.rewrite(query))
	if c.track(err) != nil {
		return fmt.Errorf("query: %w", err)
	}
	rows, err = keepIfResultSet(rows)
	if c.track(err) != nil {
		return fmt.Errorf("query: %w", err)
	}
	c.pending = rows
	return nil
}

// keepIfResultSet closes rows of a statement without columns and returns nil for them.
func keepIfResultSet(rows *sql.Rows) (*sql.Rows, error) {
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}
	if len(cols) > 0 {
		return rows, nil
	}
	// NOTE: closing drains the response, any deferred error surfaces here
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return nil, rows.Err()
}

func (c *Conn) discardPending() error {
	if c.pending == nil {
		return nil
	}
	err := c.pending.Close()
	c.pending = nil
	return err
}

// StoreResult reads the whole pending result set into memory.
// Without a pending result set it returns ErrNoResultSet and clears LastError,
// so callers can tell "nothing to store" from a failure.
func (c *Conn) StoreResult() (*Result, error) {
	res, err := c.takeResult()
	if err != nil {
		return nil, err
	}
	if err := res.store(); err != nil {
		_ = res.Close()
		return nil, err
	}
	return res, nil
}

// UseResult hands out the pending result set for row-by-row reading.
func (c *Conn) UseResult() (*Result, error) {
	return c.takeResult()
}

func (c *Conn) takeResult() (*Result, error) {
	if _, err := c.session(); err != nil {
		return nil, err
	}
	rows := c.pending
	c.pending = nil
	if rows == nil {
		c.ClearErr()
		return nil, ErrNoResultSet
	}
	res, err := newResult(c, rows)
	if c.track(err) != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("result metadata: %w", err)
	}
	c.children.add(res)
	return res, nil
}

// Exec runs a statement that returns no rows and records its counters.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) (*ExecResult, error) {
	conn, err := c.session()
	if err != nil {
		return nil, err
	}
	if err := c.discardPending(); err != nil {
		c.logger.Warn("discarding unread result failed", "error", err)
	}
	result, err := conn.ExecContext(ctx, c.dialect.rewrite(query), args...)
	if c.track(err) != nil {
		c.affectedRows, c.insertID = -1, -1
		return nil, fmt.Errorf("exec: %w", err)
	}
	res := &ExecResult{result: result}
	c.affectedRows, c.insertID = res.counters()
	return res, nil
}

// AffectedRows of the last Exec, -1 if unknown.
func (c *Conn) AffectedRows() int64 {
	return c.affectedRows
}

// InsertID of the last Exec, -1 if unknown.
func (c *Conn) InsertID() int64 {
	return c.insertID
}

// DBHandle exposes the pinned native session, nil before Connect or after Close.
func (c *Conn) DBHandle() *sql.Conn {
	return c.conn
}

func (c *Conn) Dialect() *Dialect {
	return c.dialect
}

// Close releases everything created from this Conn, then the session and the handle.
// Calling Close more than once is a no-op.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var result *multierror.Error
	if err := c.discardPending(); err != nil {
		result = multierror.Append(result, fmt.Errorf("pending result: %w", err))
	}
	if err := c.children.closeAll(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			result = multierror.Append(result, fmt.Errorf("session: %w", err))
		}
		c.conn = nil
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("handle: %w", err))
		}
		c.db = nil
		c.logger.Info("connection closed")
	}
	return result.ErrorOrNil()
}
