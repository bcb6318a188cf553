package errorsx

import "errors"

// ReasonedError carries a ReasonCode alongside the underlying failure, so a
// recognition error can be classified (connect vs status vs timeout) without
// string matching. It participates in errors.Is/As chains via Unwrap.
type ReasonedError struct {
	Err    error
	Reason ReasonCode
}

func (e ReasonedError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return e.Err.Error()
}

func (e ReasonedError) Unwrap() error {
	return e.Err
}

// Wrap tags err with a reason code. A nil err stays nil, and an error that
// already carries a reason keeps its original one: the first classification
// wins, so callers closest to the fault decide the code.
func Wrap(err error, reason ReasonCode) error {
	if err == nil {
		return nil
	}
	var re ReasonedError
	if errors.As(err, &re) {
		return err
	}
	return ReasonedError{Err: err, Reason: reason}
}

// Reason returns the code attached to err, or ReasonUnknown when err is nil
// or was never wrapped.
func Reason(err error) ReasonCode {
	var re ReasonedError
	if err != nil && errors.As(err, &re) {
		return re.Reason
	}
	return ReasonUnknown
}

// HasReason reports whether err carries the given reason code.
func HasReason(err error, reason ReasonCode) bool {
	return Reason(err) == reason
}
