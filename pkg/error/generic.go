package error

// GenericError is implemented by every error kind produced by the request
// layer. ErrCode is a stable machine-readable identifier and StatusCode the
// HTTP status a gateway surface should answer with.
type GenericError interface {
	error
	ErrCode() string
	StatusCode() int
}
