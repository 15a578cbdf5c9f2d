package service

import (
	"errors"
	"fmt"
	"strings"

	"docmanager/internal/repository"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidParent      = errors.New("parent is not a directory of the owner")
	ErrInvalidDestination = errors.New("destination is not a directory of the owner")
	ErrNotFound           = errors.New("document not found")
	ErrInvalidCredentials = errors.New("invalid mail or password")
	ErrStore              = errors.New("record store failure")

	// ErrDuplicateCredential is matched by *repository.DuplicateCredentialError.
	ErrDuplicateCredential = repository.ErrDuplicateCredential
)

// Violation is one failed rule on one input field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in one input.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

// orNil returns e only when something was recorded.
func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
