// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")

	// Export errors
	ErrExportFailure    = errors.New("export failed")
	ErrExportInProgress = errors.New("export already in progress")

	// Connectivity errors
	ErrConnectionFailure  = errors.New("connection failure")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "course", "assignment", "export"
	Op      string // Operation that failed, e.g., "Create", "Run"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both the kind and the cause.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Course domain errors
var (
	ErrCourseNotFound = NewDomainError("course", "Find", ErrNotFound, "course not found")
	ErrInvalidCourse  = NewDomainError("course", "Validate", ErrValidation, "invalid course")
)

// Assignment domain errors
var (
	ErrAssignmentNotFound = NewDomainError("assignment", "Find", ErrNotFound, "assignment not found")
	ErrInvalidAssignment  = NewDomainError("assignment", "Validate", ErrValidation, "invalid assignment")
	ErrInvalidStatus      = NewDomainError("assignment", "Validate", ErrValidation, "invalid assignment status")
	ErrGradeOutOfRange    = NewDomainError("grading", "Validate", ErrValueOutOfRange, "grade must be between 0 and 100")
)

// Performance domain errors
var (
	ErrPerformanceNotFound = NewDomainError("performance", "Find", ErrNotFound, "performance record not found")
	ErrInvalidWindow       = NewDomainError("performance", "Validate", ErrValidation, "invalid performance window")
)

// Report and export errors
var (
	ErrUnknownReportKind = NewDomainError("report", "Validate", ErrValidation, "unknown report kind")
	ErrUnknownFormat     = NewDomainError("export", "Validate", ErrValidation, "unknown export format")
	ErrUnknownSortKey    = NewDomainError("filter", "Validate", ErrValidation, "unknown sort key")
	ErrExportBusy        = NewDomainError("export", "Run", ErrExportInProgress, "another export is still running")
)

// Connection errors
var (
	ErrInvalidSpreadsheet = NewDomainError("connection", "Connect", ErrValidation, "please enter a Google Sheets ID")
	ErrDataLoadFailed     = NewDomainError("connection", "Load", ErrConnectionFailure, "failed to load data")
	ErrNotConnected       = NewDomainError("connection", "Sync", ErrValidation, "connect a spreadsheet before syncing")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsExportInProgress reports whether an export was rejected by the single-flight guard.
func IsExportInProgress(err error) bool {
	return errors.Is(err, ErrExportInProgress)
}

// IsConnectionFailure reports whether the error came from loading records.
func IsConnectionFailure(err error) bool {
	return errors.Is(err, ErrConnectionFailure) || errors.Is(err, ErrServiceUnavailable)
}
