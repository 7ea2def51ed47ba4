package dto

import "time"

// ErrorResponse is the structured diagnostic written to stderr when a run
// fails and a machine-readable format was requested.
type ErrorResponse struct {
	Message      string    `json:"message" yaml:"message"`
	ErrorDetails string    `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
}

func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
