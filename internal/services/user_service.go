package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/memberhub/memberhub/internal/auth"
	"github.com/memberhub/memberhub/internal/models"
)

// Sentinel errors surfaced to the auth flow.
var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when a signup reuses an existing email.
	ErrDuplicateEmail = errors.New("a user already exists with that email address")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, name, email, website, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, website, created_at, last_login FROM users WHERE id = ?", id)
	var website sql.NullString
	err := row.Scan(&user.ID, &user.Name, &user.Email, &website, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	user.Website = website.String
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the
// password hash for verification.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, website, created_at, last_login FROM users WHERE email = ?", email)
	var website sql.NullString
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &website, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	user.Website = website.String
	return user, nil
}

// CreateUser creates a new user, hashing their password. Email uniqueness is
// enforced by the UNIQUE index, not a prior lookup, so of two concurrent
// signups with the same email exactly one gets ErrDuplicateEmail.
func (s *UserService) CreateUser(ctx context.Context, name, email, website, password string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Website:   website,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, website, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, hash, nullable(website), user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

// AuthenticateUser verifies a user's credentials and stamps last_login on
// success. Unknown email and wrong password both return
// ErrInvalidCredentials; the unknown-email path still burns one hash
// verification so the two failures do comparable work.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			auth.VerifyPassword(password, dummyHash)
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, "UPDATE users SET last_login = ? WHERE id = ?", now, user.ID); err != nil {
		return models.User{}, err
	}
	user.LastLogin = &now

	// Don't hand the hash back to the caller
	user.PasswordHash = ""
	return user, nil
}

// dummyHash is a valid argon2id hash of a throwaway string, verified against
// when the email does not match any user.
const dummyHash = "$argon2id$v=19$m=65536,t=1,p=4$b3BhcXVlc2FsdHZhbHVlMQ$Z3pXX1dHkzO2ckC1p0M+ZVVzQJ0m2RyOX4Yy0nXhuTQ"

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
