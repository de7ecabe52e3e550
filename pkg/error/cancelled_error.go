package error

import (
	"context"
	"errors"
)

// CancelledError marks a request that was superseded by a newer call with
// the same request id, or torn down on shutdown. It is benign: callers
// should swallow it instead of surfacing error UI.
type CancelledError string

func (err CancelledError) Error() string {
	return string(err)
}

func (err CancelledError) ErrCode() string {
	return "REQUEST_CANCELLED"
}

// 499 is the de-facto "client closed request" status.
func (err CancelledError) StatusCode() int {
	return 499
}

// IsCancelled reports whether err represents a benign cancellation,
// including raw context cancellation that escaped classification.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	var ce CancelledError
	if errors.As(err, &ce) {
		return true
	}
	return errors.Is(err, context.Canceled)
}
