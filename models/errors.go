package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the request-handling taxonomy. Controllers map these
// to HTTP status codes; services wrap them with context via fmt.Errorf %w.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidUpload      = errors.New("invalid audio file")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrNotFound           = errors.New("not found")
)

// UpstreamError is a non-success response from a remote collaborator
// (synthesis provider or identity backend). Status and Body are kept for
// operator logs only and must never be echoed to external callers.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
	Timeout bool
}

func (e *UpstreamError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: request timed out", e.Service)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Service, e.Status)
}

// AsUpstream unwraps err to an UpstreamError if one is in the chain.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
