package dto

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	RequestID  string   `json:"request_id,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewNotFoundResponse creates the resolution-failure response: the error
// names every candidate path that was checked so a blank render is never
// the only diagnostic.
func NewNotFoundResponse(message, requestID string, candidates []string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:       ErrCodeNotFound,
			Message:    message,
			RequestID:  requestID,
			Candidates: candidates,
		},
	}
}

// ViewResponse is the payload returned for a resolved, rendered view.
type ViewResponse struct {
	TenantID    string      `json:"tenant_id"`
	ObjectCode  string      `json:"object_code"`
	Kind        string      `json:"kind"`
	Format      string      `json:"format,omitempty"`
	IsNewFormat bool        `json:"is_new_format"`
	Placeholder interface{} `json:"placeholder"`
	View        interface{} `json:"view"`
}
