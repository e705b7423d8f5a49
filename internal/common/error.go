// Package common defines the sentinel errors and error types shared by the
// ingestion pipeline, the storage backends and the thoughts API client.
// Callers should use errors.Is and errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Transport and remote errors. NetworkError and ServerError match these
	// through errors.Is.
	ErrNetwork = errors.New("network error")
	ErrServer  = errors.New("server error")

	// API-level errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrDecoding     = errors.New("decoding error")
	ErrInvalidURL   = errors.New("invalid url")

	// Input errors.
	ErrDegenerateImage = errors.New("degenerate image")
	ErrEmptyPayload    = errors.New("empty payload")

	// Compose validation errors.
	ErrEmptyContent  = errors.New("content is empty")
	ErrTooManyImages = errors.New("too many images")
)

// NetworkError reports a request that never produced a response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ServerError reports a response with a non-success status. Body keeps the
// response payload (or the API message) for diagnostics.
type ServerError struct {
	Code int
	Body string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server error: status %d", e.Code)
	}
	return fmt.Sprintf("server error: status %d: %s", e.Code, e.Body)
}

func (e *ServerError) Is(target error) bool { return target == ErrServer }
