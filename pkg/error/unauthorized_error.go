package error

import (
	"errors"
	"net/http"
)

type UnauthorizedError string

func (err UnauthorizedError) Error() string {
	return string(err)
}

func (err UnauthorizedError) ErrCode() string {
	return "UNAUTHORIZED_ERROR"
}

func (err UnauthorizedError) StatusCode() int {
	return http.StatusUnauthorized
}

func IsUnauthorized(err error) bool {
	var ue UnauthorizedError
	return errors.As(err, &ue)
}
