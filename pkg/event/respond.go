package event

// Response is the envelope used by handlers that want a uniform shape.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Success wraps data; an empty message defaults to "Success".
func Success(data any, message string) Response {
	if message == "" {
		message = "Success"
	}
	return Response{Success: true, Message: message, Data: data}
}

func Failure(message string, details any) Response {
	return Response{Success: false, Message: message, Details: details}
}
