package staticsrv

import "errors"

// ErrNotRunning is reported when an operation needs a running server.
var ErrNotRunning = errors.New("server is not running")

// BindError is returned by Start when the listener cannot be bound,
// e.g. because the port is already in use.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return "bind " + e.Addr + ": " + e.Err.Error()
}

func (e *BindError) Unwrap() error {
	return e.Err
}
