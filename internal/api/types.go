package api

import "encoding/json"

// APIError is the JSON body of every non-2xx answer.
type APIError struct {
	Message   string         `json:"error"`
	Type      string         `json:"type"`
	RequestID string         `json:"request_id,omitempty"`
	Context   map[string]any `json:"-"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e APIError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeValidation  = "validation_error"
	ErrTypeInvalidJSON = "invalid_json"
	ErrTypeBodyTooBig  = "body_too_large"

	// System errors
	ErrTypeStorage            = "storage_error"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryStorage    ErrorCategory = "storage"
	CategorySystem     ErrorCategory = "system"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidJSON, ErrTypeBodyTooBig:
		return CategoryValidation
	case ErrTypeStorage, ErrTypeServiceUnavailable:
		return CategoryStorage
	default:
		return CategorySystem
	}
}

// SubmitRequest is the body of POST /scores. Fields stay raw so validation
// can tell a missing field from one of the wrong JSON type.
type SubmitRequest struct {
	Name  json.RawMessage `json:"name"`
	Score json.RawMessage `json:"score"`
	Level json.RawMessage `json:"level"`
	Date  json.RawMessage `json:"date"`
}

// SubmitResponse acknowledges a stored record.
type SubmitResponse struct {
	OK bool `json:"ok"`
}

// VersionInfo contains service version information
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}
