package client

import "fmt"

// HTTPError represents a non-2xx response from the score service.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("client: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsValidation returns true when the service rejected the record itself
// (HTTP 400); sending it again would fail the same way.
func (e *HTTPError) IsValidation() bool {
	return e.StatusCode == 400
}

// IsRetryable returns true for server errors (5xx).
func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode >= 500
}
