package internal

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a submission arrives while a reply for the same
// session is still in flight.
var ErrBusy = errors.New("a reply is still pending for this session")

// StorageError represents a read/write/rename/delete fault in a session store
type StorageError struct {
	Name string
	Op   string // "load", "save", "rename", "delete", "list"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NotFoundError represents a load or delete on a missing session
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session not found: %q", e.Name)
}

// NameCollisionError represents a rename or create whose target name is taken
type NameCollisionError struct {
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("session name already exists: %q", e.Name)
}

// ExtractionError represents an OCR or document-parse failure
type ExtractionError struct {
	Kind string // "image", "document"
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error [%s]: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UnreachableError represents a completion service that is down or unroutable
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("model service unreachable at %s: %v", e.Host, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// ServiceError represents a non-success response from the completion service
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("model service error (status %d): %s", e.Status, e.Detail)
}
