package graph

import (
	"errors"
	"fmt"
)

// ErrNoContent indicates an attachment carries neither inline content bytes
// nor a media read link, so there is nothing to download.
var ErrNoContent = errors.New("attachment has no content bytes or read link")

// APIError is a non-success response from the Graph API. It carries the
// original status code and response body.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("graph api: status %d: %s", e.StatusCode, e.Body)
}

// AuthError indicates the token negotiation with the identity provider failed.
type AuthError struct {
	Detail string
	Err    error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("auth: %s", e.Detail)
}

// Unwrap returns the underlying error
func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAPIError extracts an APIError from an error if it exists
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
