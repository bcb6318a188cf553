package stt

import "errors"

// ConnectionError is the single failure kind recognizers report to hosts.
// Transport faults, timeouts and non-2xx statuses all collapse into it; the
// distinguishing detail stays on the wrapped error and in provider logs.
type ConnectionError struct {
	Err error
}

func NewConnectionError(err error) *ConnectionError {
	return &ConnectionError{Err: err}
}

func (e *ConnectionError) Error() string {
	if e == nil || e.Err == nil {
		return "stt: connection error"
	}
	return "stt: connection error: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsConnectionError reports whether err is (or wraps) a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
