package postgres

import (
	"context"
	"database/sql"
	"strings"

	"docmanager/internal/database"
	"docmanager/internal/model"
	"docmanager/internal/repository"
)

// Constraint names from the users table definition in the migration package.
const (
	usersNameKey = "users_name_key"
	usersMailKey = "users_mail_key"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// FindByMail fetches a user by mail, ignoring case.
func (r *UserPostgres) FindByMail(ctx context.Context, mail string) (*model.User, error) {
	const q = `
		SELECT id, name, mail, password_hash
		FROM users
		WHERE mail = $1
	`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, strings.ToLower(mail)).Scan(
		&u.ID,
		&u.Name,
		&u.Mail,
		&u.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserPostgres) MailExists(ctx context.Context, mail string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE mail = $1)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, strings.ToLower(mail)).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *UserPostgres) UsernameExists(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE name = $1)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Insert registers a user after checking both unique credentials, so a clash on
// username and email is reported together. A concurrent registration that slips
// past the checks is caught by the unique constraints.
func (r *UserPostgres) Insert(ctx context.Context, name, mail, passwordHash string) (*model.User, error) {
	mail = strings.ToLower(mail)

	nameTaken, err := r.UsernameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	mailTaken, err := r.MailExists(ctx, mail)
	if err != nil {
		return nil, err
	}
	if nameTaken || mailTaken {
		return nil, &repository.DuplicateCredentialError{Username: nameTaken, Email: mailTaken}
	}

	const q = `
		INSERT INTO users (name, mail, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, mail
	`
	u := model.User{PasswordHash: passwordHash}
	err = r.db.QueryRowContext(ctx, q, name, mail, passwordHash).Scan(&u.ID, &u.Name, &u.Mail)
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			return nil, &repository.DuplicateCredentialError{
				Username: constraint == usersNameKey,
				Email:    constraint == usersMailKey,
			}
		}
		return nil, err
	}
	return &u, nil
}
