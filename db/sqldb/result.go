package sqldb

import (
	"database/sql"
	"errors"
)

// Row is one row of a text result. NULL columns have Valid == false.
type Row []sql.NullString

// String returns column i, "" for NULL.
func (r Row) String(i int) string {
	return r[i].String
}

func (r Row) IsNull(i int) bool {
	return !r[i].Valid
}

// Result is a result set read as text, either buffered by Conn.StoreResult
// or streamed by Conn.UseResult.
type Result struct {
	conn *Conn
	rows *sql.Rows // nil once buffered or closed
	cols []string

	buffered []Row
	stored   bool
	pos      int
	numRows  uint64
	closed   bool
}

func newResult(c *Conn, rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	return &Result{conn: c, rows: rows, cols: cols}, nil
}

func (r *Result) store() error {
	defer r.releaseRows()
	for {
		row, err := r.next()
		if err != nil {
			if errors.Is(err, ErrNoData) {
				break
			}
			return err
		}
		r.buffered = append(r.buffered, row)
	}
	r.stored = true
	r.numRows = uint64(len(r.buffered))
	return nil
}

// next reads one row from the driver.
func (r *Result) next() (Row, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			r.conn.track(err)
			return nil, err
		}
		return nil, ErrNoData
	}
	row := make(Row, len(r.cols))
	dest := make([]any, len(row))
	for i := range row {
		dest[i] = &row[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		r.conn.setErr(err.Error())
		return nil, err
	}
	return row, nil
}

func (r *Result) releaseRows() {
	if r.rows == nil {
		return
	}
	if err := r.rows.Close(); err != nil {
		r.conn.logger.Warn("closing result rows failed", "error", err)
	}
	r.rows = nil
}

// NumRows is the row count of a stored result, or the rows fetched so far
// of a streamed one.
func (r *Result) NumRows() uint64 {
	return r.numRows
}

func (r *Result) NumFields() int {
	return len(r.cols)
}

func (r *Result) Columns() []string {
	return r.cols
}

// FetchRow returns the next row, ErrNoData after the last one.
// Any other error is a fetch failure, also reported by Conn.LastError.
func (r *Result) FetchRow() (Row, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.stored {
		if r.pos >= len(r.buffered) {
			r.conn.ClearErr()
			return nil, ErrNoData
		}
		row := r.buffered[r.pos]
		r.pos++
		return row, nil
	}
	if r.rows == nil {
		r.conn.ClearErr()
		return nil, ErrNoData
	}
	row, err := r.next()
	if err != nil {
		if errors.Is(err, ErrNoData) {
			r.conn.ClearErr()
			r.releaseRows()
		}
		return nil, err
	}
	r.numRows++
	return row, nil
}

// Close frees the result. Idempotent.
func (r *Result) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.conn.children.remove(r)
	r.buffered = nil
	if r.rows == nil {
		return nil
	}
	err := r.rows.Close()
	r.rows = nil
	return err
}
