package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for API responses with a fixed meaning.
var (
	// ErrUnauthorized indicates the API token was rejected (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized: check your API token")

	// ErrForbidden indicates insufficient permissions (HTTP 403).
	ErrForbidden = errors.New("forbidden: insufficient permissions")
)

// APIError is any other 4xx/5xx response, carrying the status code and the
// raw response body.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// RateLimitError is an HTTP 429 response. RetryAfter is the server's
// suggested wait in seconds; it defaults to 1.0 when the header is absent or
// unparsable. Retrying is the caller's decision.
type RateLimitError struct {
	RetryAfter float64
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %.1fs", e.RetryAfter)
}

// NetworkError wraps a transport-level failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UploadError is a failed byte upload to a storage endpoint: any upload
// response that is neither a success nor a redirect.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed with HTTP %d: %s", e.Status, e.Body)
}
