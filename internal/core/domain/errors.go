package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInvalidID          = errors.New("invalid id")
	ErrHasDependents      = errors.New("has dependents")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrConfig             = errors.New("token signing secret is not configured")

	ErrNoToken            = errors.New("no token provided")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrStalePassword      = errors.New("password changed after token was issued")
	ErrForbidden          = errors.New("access forbidden")
)

// NotFoundError reports a missing document of a named resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No %s found with id %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// FieldError is a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates one message per invalid field.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError is a shorthand for a single-field ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "Validation failed: " + strings.Join(msgs, ". ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DuplicateKeyError names the unique field and value that collided.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("Validation failed: Duplicate %s value '%s'. Please use a different %s.", e.Field, e.Value, e.Field)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// InvalidIDError reports an identifier that is not a well-formed ObjectID.
type InvalidIDError struct {
	Field string
	Value string
}

func (e *InvalidIDError) Error() string {
	field := e.Field
	if field == "" {
		field = "id"
	}
	return fmt.Sprintf("Invalid %s: %s. Please provide a valid ID.", field, e.Value)
}

func (e *InvalidIDError) Unwrap() error { return ErrInvalidID }

// DependentsError refuses to delete a document that still has children.
type DependentsError struct {
	Resource string
	ID       string
	Count    int
}

func (e *DependentsError) Error() string {
	return fmt.Sprintf("Cannot delete %s with id %s because it has %d associated answers. Delete the answers first or move them to another category.", e.Resource, e.ID, e.Count)
}

func (e *DependentsError) Unwrap() error { return ErrHasDependents }

// ForbiddenError is returned by the permission gate.
type ForbiddenError struct {
	Role string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("Authorization failed: Access denied. Your role (%s) does not have permission to access this resource.", e.Role)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }
