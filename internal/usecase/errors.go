package usecase

import (
	"errors"
	"fmt"

	"officehub-backend/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyActive      = errors.New("user already logged in")
	ErrNotActive          = errors.New("user is already logged out")
	ErrDuplicateRecord    = errors.New("attendance already marked for this day")
	ErrAlreadyClosed      = errors.New("logout time already marked for this day")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthorized       = errors.New("not authorized")
	ErrValidation         = errors.New("validation failed")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// missing turns a repository miss into ErrNotFound with the entity named.
func missing(err error, entity string, id interface{}) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
	}
	return err
}
