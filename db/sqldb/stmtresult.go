package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
)

// StmtResult is the result set of a prepared statement, fetched into
// caller-owned destinations bound per column.
type StmtResult struct {
	stmt  *Stmt
	rows  *sql.Rows // nil once buffered or closed
	types []*sql.ColumnType
	binds []Bind

	resultBound bool
	buffered    [][]any
	stored      bool
	pos         int
	numRows     uint64
	closed      bool
	failed      error // read error, returned by every later StoreResult and Fetch
}

func newStmtResult(s *Stmt, rows *sql.Rows, types []*sql.ColumnType) *StmtResult {
	return &StmtResult{
		stmt:  s,
		rows:  rows,
		types: types,
		binds: make([]Bind, len(types)),
	}
}

func (r *StmtResult) NumFields() int {
	return len(r.types)
}

func (r *StmtResult) Columns() []string {
	names := make([]string, len(r.types))
	for i, t := range r.types {
		names[i] = t.Name()
	}
	return names
}

func (r *StmtResult) ColumnTypes() []*sql.ColumnType {
	return r.types
}

// NumRows is the row count after StoreResult, or the rows fetched so far.
func (r *StmtResult) NumRows() uint64 {
	return r.numRows
}

// Bind returns output slot i. It panics if i is out of range.
func (r *StmtResult) Bind(i int) *Bind {
	return &r.binds[i]
}

// BindOutput points column i at dest, a non-nil pointer. For string and blob
// columns bufLen caps the copied bytes (0 = no cap). isNull and length are optional.
func (r *StmtResult) BindOutput(i int, typ FieldType, dest any, bufLen int, isNull *bool, length *int) *Bind {
	b := r.binds[i].set(typ, dest, bufLen)
	b.IsNull = isNull
	b.Length = length
	return b
}

// BindResult checks that every column has a destination.
func (r *StmtResult) BindResult() error {
	if r.closed {
		return ErrClosed
	}
	for i := range r.binds {
		if r.binds[i].Buffer == nil {
			err := fmt.Errorf("column %d: %w", i, ErrOutputNotBound)
			r.stmt.setErr(err.Error())
			r.resultBound = false
			return err
		}
	}
	r.resultBound = true
	return nil
}

// StoreResult buffers all remaining rows client side. Optional: without it
// Fetch reads from the server row by row.
func (r *StmtResult) StoreResult() error {
	if r.closed {
		return ErrClosed
	}
	if r.failed != nil {
		return r.failed
	}
	if r.stored {
		return nil
	}
	defer r.releaseRows()
	for {
		vals, err := r.next()
		if err != nil {
			if errors.Is(err, ErrNoData) {
				break
			}
			r.buffered = nil
			return err
		}
		r.buffered = append(r.buffered, vals)
	}
	r.stored = true
	r.numRows += uint64(len(r.buffered))
	return nil
}

func (r *StmtResult) next() ([]any, error) {
	if r.rows == nil {
		return nil, ErrNoData
	}
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			r.stmt.track(err)
			r.failed = err
			return nil, err
		}
		return nil, ErrNoData
	}
	vals := make([]any, len(r.types))
	dest := make([]any, len(vals))
	for i := range vals {
		dest[i] = &vals[i]
	}
	// scanning into *any copies []byte values
	if err := r.rows.Scan(dest...); err != nil {
		r.stmt.setErr(err.Error())
		r.failed = err
		return nil, err
	}
	return vals, nil
}

func (r *StmtResult) releaseRows() {
	if r.rows == nil {
		return
	}
	if err := r.rows.Close(); err != nil {
		r.stmt.conn.logger.Warn("closing statement result rows failed", "error", err)
	}
	r.rows = nil
}

// Fetch copies the next row into the bound destinations. It returns
// ErrNoData after the last row and ErrDataTruncated when a value did not fit
// its slot; the truncated row is still delivered.
func (r *StmtResult) Fetch() error {
	if r.closed {
		return ErrClosed
	}
	if !r.resultBound {
		r.stmt.setErr(ErrOutputNotBound.Error())
		return ErrOutputNotBound
	}
	if r.failed != nil {
		return r.failed
	}
	var vals []any
	if r.stored {
		if r.pos >= len(r.buffered) {
			return ErrNoData
		}
		vals = r.buffered[r.pos]
		r.pos++
	} else {
		var err error
		if vals, err = r.next(); err != nil {
			// a failed read ends the result too
			r.releaseRows()
			return err
		}
		r.numRows++
	}
	truncated := false
	for i := range r.binds {
		t, err := assignResult(&r.binds[i], vals[i])
		if err != nil {
			err = fmt.Errorf("column %d (%s): %w", i, r.types[i].Name(), err)
			r.stmt.setErr(err.Error())
			return err
		}
		truncated = truncated || t
	}
	if truncated {
		return ErrDataTruncated
	}
	return nil
}

// Close frees the slots and the metadata. Idempotent.
func (r *StmtResult) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.stmt.children.remove(r)
	r.binds = nil
	r.buffered = nil
	if r.rows == nil {
		return nil
	}
	err := r.rows.Close()
	r.rows = nil
	return err
}
