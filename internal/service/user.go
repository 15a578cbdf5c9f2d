package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"docmanager/internal/logger"
	"docmanager/internal/model"
	"docmanager/internal/repository"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name            string `validate:"required,max=64"`
	Mail            string `validate:"required,email,max=254"`
	Password        string `validate:"required"`
	PasswordConfirm string `validate:"required,eqfield=Password"`
}

// LoginInput is the sign-in form.
type LoginInput struct {
	Mail     string `validate:"required,email"`
	Password string `validate:"required"`
}

// UserService handles accounts.
type UserService interface {
	// Register creates an account. Taken credentials fail with an error
	// matching ErrDuplicateCredential that names which ones clashed.
	Register(ctx context.Context, in RegisterInput) (*model.User, error)

	// Authenticate returns the user for a mail and password pair.
	Authenticate(ctx context.Context, in LoginInput) (*model.User, error)
}

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

type userService struct {
	repo repository.UserRepository
	log  *logger.Logger
	cost int
}

// NewUserService constructs a new UserService hashing with bcrypt.DefaultCost.
func NewUserService(repo repository.UserRepository, log *logger.Logger) UserService {
	return &userService{repo: repo, log: log.With("users"), cost: bcrypt.DefaultCost}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Mail = strings.ToLower(strings.TrimSpace(in.Mail))

	verr := &ValidationError{}
	if err := collect(verr, in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		verr.add("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Insert(ctx, in.Name, in.Mail, string(hash))
	if err != nil {
		if errors.Is(err, ErrDuplicateCredential) {
			return nil, err
		}
		return nil, storeErr("insert user", err)
	}

	s.log.Info("user_registered", map[string]any{"user_id": u.ID})
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, in LoginInput) (*model.User, error) {
	in.Mail = strings.ToLower(strings.TrimSpace(in.Mail))

	verr := &ValidationError{}
	if err := collect(verr, in); err != nil {
		return nil, err
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByMail(ctx, in.Mail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr("find user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		s.log.Warn("login_rejected", map[string]any{"user_id": u.ID})
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
