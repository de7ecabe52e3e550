package error

import "fmt"

// ServerError carries an upstream 5xx status and message.
type ServerError struct {
	Status int
	Msg    string
}

func (err ServerError) Error() string {
	if err.Msg == "" {
		return fmt.Sprintf("upstream returned status %d", err.Status)
	}
	return err.Msg
}

func (err ServerError) ErrCode() string {
	return "SERVER_ERROR"
}

func (err ServerError) StatusCode() int {
	return err.Status
}
