package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when no connection string was supplied.
var ErrNotConfigured = errors.New("database connection string is not configured")

// ConnectionError reports that the store is unreachable or the connection
// string is missing or malformed.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Op == "" {
		return "connection error: " + e.Err.Error()
	}
	return fmt.Sprintf("connection error: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// FieldError describes a single rejected field.
type FieldError struct {
	Field  string
	Reason string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: path `%s` %s", f.Field, f.Field, f.Reason)
}

// ValidationError reports that a record was rejected before it was written.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "user validation failed: " + strings.Join(parts, ", ")
}

// PersistenceError reports a failed read or write that is neither a
// connection nor a validation problem.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsConnection reports whether err is or wraps a *ConnectionError.
func IsConnection(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsPersistence reports whether err is or wraps a *PersistenceError.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

// Kind returns a short label for the error class, used in logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidation(err):
		return "validation"
	case IsConnection(err):
		return "connection"
	default:
		return "persistence"
	}
}
