package internal

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures reported by the upstream provider or by the
// client talking to it.
type ErrorType int

const (
	ErrInvalidURL ErrorType = iota
	ErrFileNotFound
	ErrInvalidResponse
	ErrUpstreamAPI
)

// String returns the string representation of ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrInvalidURL:
		return "InvalidURL"
	case ErrFileNotFound:
		return "FileNotFound"
	case ErrInvalidResponse:
		return "InvalidResponse"
	case ErrUpstreamAPI:
		return "UpstreamAPI"
	default:
		return "Unknown"
	}
}

// TeraboxError represents a failure surfaced by the Terabox API. Code carries
// the upstream errno (or HTTP status for transport-shaped failures) and
// Message is the caller-facing text placed into the APIResult envelope.
type TeraboxError struct {
	Code    int       `json:"errno"`
	Message string    `json:"errmsg"`
	Type    ErrorType `json:"type"`
}

// Error implements the error interface
func (e *TeraboxError) Error() string {
	return fmt.Sprintf("terabox error (code: %d, type: %s): %s", e.Code, e.Type, e.Message)
}

// NewTeraboxError creates a new TeraboxError
func NewTeraboxError(code int, message string, errorType ErrorType) *TeraboxError {
	return &TeraboxError{
		Code:    code,
		Message: message,
		Type:    errorType,
	}
}

// AsTeraboxError unwraps err into a TeraboxError if it is one.
func AsTeraboxError(err error) (*TeraboxError, bool) {
	var te *TeraboxError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
