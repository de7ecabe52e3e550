package error

import (
	"errors"
	"net/http"
)

// TimeoutError covers both the client-side deadline and transport-level
// network failures; the UI treats them the same (retry affordance).
type TimeoutError string

func (err TimeoutError) Error() string {
	return string(err)
}

func (err TimeoutError) ErrCode() string {
	return "NETWORK_TIMEOUT"
}

func (err TimeoutError) StatusCode() int {
	return http.StatusGatewayTimeout
}

func IsTimeout(err error) bool {
	var te TimeoutError
	return errors.As(err, &te)
}
