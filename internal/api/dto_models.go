package api

// ErrorDetail is the inner error object of every error response.
type ErrorDetail struct {
	Message string `json:"message"`
}

// ErrorResponse is the uniform error envelope: {"error":{"message":"…"}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// NewErrorResponse builds an ErrorResponse with the given message.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Message: message}}
}

// URLResponse carries a redirect target URL (checkout and portal sessions).
type URLResponse struct {
	URL string `json:"url"`
}

// StatusResponse is a minimal success acknowledgement.
type StatusResponse struct {
	Status string `json:"status"`
}
