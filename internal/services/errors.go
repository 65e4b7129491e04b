package services

import "fmt"

// Custom errors
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Validation error"
}

// NoIndexError means the session has no processed content yet.
type NoIndexError struct{}

func (e *NoIndexError) Error() string { return NoContentMessage }

type ExtractionError struct {
	File string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.File, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

type TooLargeError struct {
	File  string
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%s exceeds the %d MB limit", e.File, e.Limit>>20)
}

// ExternalError wraps a failure of the embedding or language model service.
type ExternalError struct {
	Service string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s service error: %v", e.Service, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }
