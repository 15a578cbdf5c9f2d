package repository

import (
	"context"
	"errors"

	"docmanager/internal/model"
)

// ErrDuplicateCredential is matched by every *DuplicateCredentialError.
var ErrDuplicateCredential = errors.New("credential already registered")

// DuplicateCredentialError tells which of the unique credentials are taken.
type DuplicateCredentialError struct {
	Username bool
	Email    bool
}

func (e *DuplicateCredentialError) Error() string {
	switch {
	case e.Username && e.Email:
		return "username and email already registered"
	case e.Username:
		return "username already registered"
	case e.Email:
		return "email already registered"
	default:
		return ErrDuplicateCredential.Error()
	}
}

func (e *DuplicateCredentialError) Is(target error) bool {
	return target == ErrDuplicateCredential
}

// UserRepository defines data access for user accounts.
// Mail comparisons are case-insensitive; implementations lower-case it.
type UserRepository interface {
	// FindByMail returns the user registered with mail, or sql.ErrNoRows.
	FindByMail(ctx context.Context, mail string) (*model.User, error)

	MailExists(ctx context.Context, mail string) (bool, error)

	UsernameExists(ctx context.Context, name string) (bool, error)

	// Insert registers a new user. Taken credentials yield *DuplicateCredentialError.
	Insert(ctx context.Context, name, mail, passwordHash string) (*model.User, error)
}
