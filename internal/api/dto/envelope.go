package dto

// Response types carried by every envelope.
const (
	ResponseSuccess = "SUCCESS"
	ResponseError   = "ERROR"
)

// Envelope wraps every /api response body.
type Envelope struct {
	ResponseType string `json:"responseType"`
	Data         any    `json:"data"`
	Message      string `json:"message"`
}

// Success builds a SUCCESS envelope.
func Success(data any, message string) Envelope {
	return Envelope{ResponseType: ResponseSuccess, Data: data, Message: message}
}

// Failure builds an ERROR envelope; data carries optional error details.
func Failure(message string, data any) Envelope {
	return Envelope{ResponseType: ResponseError, Data: data, Message: message}
}
