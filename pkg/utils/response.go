package utils

// ResponseData is the envelope every gateway endpoint answers with.
type ResponseData struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded lets handlers stay flat; the recovery middleware turns the
// panic back into a ResponseData with the right status.
func PanicIfNeeded(err error, message ...string) {
	if err != nil {
		panic(err)
	}

	if len(message) > 0 && message[0] != "" {
		panic(message[0])
	}
}
