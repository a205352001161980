package sqldb

import "errors"

var (
	ErrNoResultSet        = errors.New("sqldb: no result set")
	ErrNoData             = errors.New("sqldb: no more rows")
	ErrDataTruncated      = errors.New("sqldb: data truncated")
	ErrParamNotBound      = errors.New("sqldb: parameter not bound")
	ErrParamsNotBound     = errors.New("sqldb: no data supplied for parameters in prepared statement")
	ErrOutputNotBound     = errors.New("sqldb: result column not bound")
	ErrClosed             = errors.New("sqldb: use of closed handle")
	ErrNotConnected       = errors.New("sqldb: not connected")
	ErrUnsupportedDialect = errors.New("sqldb: unsupported database type")
)

// ErrInfo is what a dialect can decode from a driver error.
type ErrInfo struct {
	Number   uint   // vendor error number, 0 if the backend has none
	SQLState string // 5-char SQLSTATE, "" if unknown
	Message  string // message without driver decorations
}

// errState is the last-error bookkeeping shared by Conn and Stmt.
// own is set by the wrapper itself; driver mirrors the outcome of the
// last driver call and is reset on success.
type errState struct {
	own     string
	driver  error
	dialect *Dialect
}

func (e *errState) setErr(msg string) {
	e.own = msg
}

// ClearErr clears the wrapper's own last error. The driver error is untouched.
func (e *errState) ClearErr() {
	e.own = ""
}

// track records the outcome of a driver call and passes err through.
func (e *errState) track(err error) error {
	e.driver = err
	return err
}

func (e *errState) driverInfo() (ErrInfo, bool) {
	if e.driver == nil {
		return ErrInfo{}, false
	}
	if e.dialect != nil && e.dialect.ErrorInfo != nil {
		if info, ok := e.dialect.ErrorInfo(e.driver); ok {
			return info, true
		}
	}
	return ErrInfo{Message: e.driver.Error()}, true
}

// driverMessage returns the last driver error message or "".
func (e *errState) driverMessage() string {
	info, ok := e.driverInfo()
	if !ok {
		return ""
	}
	return info.Message
}

// LastError returns the wrapper's own last error if set, else the last
// driver error message, else "".
func (e *errState) LastError() string {
	if e.own != "" {
		return e.own
	}
	return e.driverMessage()
}

// Errno returns the vendor error number of the last failed driver call.
func (e *errState) Errno() uint {
	info, _ := e.driverInfo()
	return info.Number
}

// SQLState returns the SQLSTATE of the last failed driver call.
func (e *errState) SQLState() string {
	info, _ := e.driverInfo()
	return info.SQLState
}

// setDriverErrFallback sets the own error to the driver's message, or to
// fallback when the driver has nothing to say.
func (e *errState) setDriverErrFallback(fallback string) {
	if msg := e.driverMessage(); msg != "" {
		e.setErr(msg)
		return
	}
	e.setErr(fallback)
}
