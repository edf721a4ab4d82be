package objects

// Response is the standard success envelope. Message is omitted when empty.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the standard failure envelope. The body deliberately never
// carries internals, only a user-facing message.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK wraps data in a success envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage wraps data and a message in a success envelope.
func OKMessage(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}
