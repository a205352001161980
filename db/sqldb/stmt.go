package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Stmt is a prepared statement with a fixed number of parameter slots.
type Stmt struct {
	errState

	conn  *Conn
	stmt  *sql.Stmt
	binds []Bind
	bound bool

	pending  *sql.Rows // result set left by Execute
	children owned     // StmtResults created from this Stmt

	affectedRows int64
	insertID     int64
	closed       bool
}

func newStmt(c *Conn, st *sql.Stmt, nrBind int) *Stmt {
	s := &Stmt{
		conn:         c,
		stmt:         st,
		children:     owned{},
		affectedRows: -1,
		insertID:     -1,
	}
	s.dialect = c.dialect
	if nrBind > 0 {
		s.binds = make([]Bind, nrBind)
	}
	s.ClearErr()
	return s
}

// NumParams is the number of parameter slots.
func (s *Stmt) NumParams() int {
	return len(s.binds)
}

// Bind returns slot i. It panics if i is out of range.
func (s *Stmt) Bind(i int) *Bind {
	return &s.binds[i]
}

// BindStr binds a string parameter.
func (s *Stmt) BindStr(i int, str string) *Bind {
	return s.binds[i].set(FieldTypeString, str, len(str))
}

// BindValue binds buf as typ. buf may be a pointer; it is read at Execute.
func (s *Stmt) BindValue(i int, typ FieldType, buf any) *Bind {
	return s.binds[i].set(typ, buf, 0)
}

func (s *Stmt) BindNull(i int) *Bind {
	return s.binds[i].set(FieldTypeNull, nil, 0)
}

// BindStmt checks that every slot is bound and convertible.
func (s *Stmt) BindStmt() error {
	if s.closed {
		return ErrClosed
	}
	if _, err := s.params(); err != nil {
		s.setErr(err.Error())
		s.bound = false
		return err
	}
	s.bound = true
	return nil
}

func (s *Stmt) params() ([]any, error) {
	args := make([]any, len(s.binds))
	for i := range s.binds {
		v, err := s.binds[i].param()
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		args[i] = v
	}
	return args, nil
}

// Execute runs the statement. A result set, if any, stays pending until StoreResult.
func (s *Stmt) Execute(ctx context.Context) error {
	args, err := s.execArgs()
	if err != nil {
		return err
	}
	if err := s.discardPending(); err != nil {
		s.conn.logger.Warn("discarding unread statement result failed", "error", err)
	}
	rows, err := s.stmt.QueryContext(ctx, args...)
	if s.track(err) != nil {
		return fmt.Errorf("execute: %w", err)
	}
	rows, err = keepIfResultSet(rows)
	if s.track(err) != nil {
		return fmt.Errorf("execute: %w", err)
	}
	s.pending = rows
	return nil
}

// Exec runs a statement that returns no rows and records its counters.
func (s *Stmt) Exec(ctx context.Context) (*ExecResult, error) {
	args, err := s.execArgs()
	if err != nil {
		return nil, err
	}
	if err := s.discardPending(); err != nil {
		s.conn.logger.Warn("discarding unread statement result failed", "error", err)
	}
	result, err := s.stmt.ExecContext(ctx, args...)
	if s.track(err) != nil {
		s.affectedRows, s.insertID = -1, -1
		return nil, fmt.Errorf("exec: %w", err)
	}
	res := &ExecResult{result: result}
	s.affectedRows, s.insertID = res.counters()
	return res, nil
}

func (s *Stmt) execArgs() ([]any, error) {
	if s.closed {
		s.setErr(ErrClosed.Error())
		return nil, ErrClosed
	}
	if len(s.binds) > 0 && !s.bound {
		s.setErr(ErrParamsNotBound.Error())
		return nil, ErrParamsNotBound
	}
	// pointers are read now, not at BindStmt
	args, err := s.params()
	if err != nil {
		s.setErr(err.Error())
		return nil, err
	}
	return args, nil
}

func (s *Stmt) discardPending() error {
	if s.pending == nil {
		return nil
	}
	err := s.pending.Close()
	s.pending = nil
	return err
}

// StoreResult returns the result metadata of the last Execute along with
// one output slot per column. ErrNoResultSet if it produced none.
func (s *Stmt) StoreResult() (*StmtResult, error) {
	if s.closed {
		return nil, ErrClosed
	}
	rows := s.pending
	s.pending = nil
	if rows == nil {
		return nil, ErrNoResultSet
	}
	types, err := rows.ColumnTypes()
	if s.track(err) != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("result metadata: %w", err)
	}
	res := newStmtResult(s, rows, types)
	s.children.add(res)
	return res, nil
}

// AffectedRows of the last Exec, -1 if unknown.
func (s *Stmt) AffectedRows() int64 {
	return s.affectedRows
}

// InsertID of the last Exec, -1 if unknown.
func (s *Stmt) InsertID() int64 {
	return s.insertID
}

// ConnErrno is the connection-level error number.
func (s *Stmt) ConnErrno() uint {
	return s.conn.Errno()
}

// ConnError is the connection-level last error.
func (s *Stmt) ConnError() string {
	return s.conn.LastError()
}

// Close releases the statement's results and the native statement. Idempotent.
func (s *Stmt) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.conn.children.remove(s)
	var result *multierror.Error
	if err := s.discardPending(); err != nil {
		result = multierror.Append(result, fmt.Errorf("pending result: %w", err))
	}
	if err := s.children.closeAll(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.stmt.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("statement: %w", err))
	}
	s.binds = nil
	return result.ErrorOrNil()
}
