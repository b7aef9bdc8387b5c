package internal

import "fmt"

// ValidationError represents input rejected before any state change
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// StorageError represents a failed write to the persistent store. Writes are
// non-fatal: in-memory state stays authoritative for the current run.
type StorageError struct {
	Op  string // "write", "remove"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents a malformed persisted payload. Never propagated past
// the repository boundary; the payload is treated as absent.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CollaboratorError represents a failed call to an external endpoint (the AI
// backend or the statistics service)
type CollaboratorError struct {
	Endpoint string
	Err      error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator error [%s]: %v", e.Endpoint, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
