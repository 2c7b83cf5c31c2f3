// Package auth implements account signup and login, password hashing and the
// signed tokens that identify a user between requests.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrUserExists         = errors.New("user with this email already exists")
	ErrEmailTaken         = errors.New("email already stored")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized access")
)

// User is a stored account. PasswordHash never leaves the service layer.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser is the part of a User that may be shown to clients.
type PublicUser struct {
	ID    string
	Name  string
	Email string
}

// Public returns the client-facing view of u.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserRepository persists users. Email uniqueness is enforced by the
// implementation: Create returns ErrEmailTaken for a duplicate.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
