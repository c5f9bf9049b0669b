package model

// Response is the JSON envelope of every API reply.
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

// Success wraps data in a success envelope.
func Success(data interface{}) Response {
	return Response{Data: data, Message: "Success"}
}

// Failure builds an error envelope. An empty message becomes "Error".
func Failure(errMsg, message string) Response {
	if message == "" {
		message = "Error"
	}
	return Response{Error: &errMsg, Message: message}
}
