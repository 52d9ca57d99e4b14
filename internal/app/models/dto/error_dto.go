package dto

// ErrorResponse is the body of every error response. Detail is a string,
// or a list of field messages for request validation failures.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

// FieldError describes one invalid request field
type FieldError struct {
	Field   string `json:"field" example:"p_name"`
	Message string `json:"message" example:"p_name is required"`
}

// NewErrorResponse creates an error body with a plain message
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Detail: message}
}
