package sqldb

import "database/sql"

// ExecResult is the outcome of a statement that returns no rows.
type ExecResult struct {
	result sql.Result
}

func (r *ExecResult) RowsAffected() (int64, error) {
	return r.result.RowsAffected()
}

func (r *ExecResult) LastInsertId() (int64, error) {
	return r.result.LastInsertId()
}

// counters returns affected rows and insert id, -1 where the driver cannot tell.
func (r *ExecResult) counters() (affected int64, insertID int64) {
	affected, err := r.result.RowsAffected()
	if err != nil {
		affected = -1
	}
	insertID, err = r.result.LastInsertId()
	if err != nil {
		insertID = -1
	}
	return affected, insertID
}
