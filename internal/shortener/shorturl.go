package shortener

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("url not found")
	ErrCodeTaken        = errors.New("short code already exists")
	ErrInvalidCode      = errors.New("invalid short code")
	ErrInvalidURL       = errors.New("invalid url")
	ErrExhaustedRetries = errors.New("failed to generate unique short code")
	ErrForbidden        = errors.New("url belongs to another user")
)

// Code represents a short URL code.
type Code string

// ShortURL represents a shortened URL entity owned by a user.
type ShortURL struct {
	ID          string
	Code        Code
	OriginalURL string
	OwnerID     string
	ClickCount  int64
	CreatedAt   time.Time
}

// Repository persists short URLs. Code uniqueness is enforced by the implementation:
// Create returns ErrCodeTaken when the code is already stored.
type Repository interface {
	Create(ctx context.Context, shortURL *ShortURL) error
	GetByID(ctx context.Context, id string) (*ShortURL, error)
	GetByCode(ctx context.Context, code Code) (*ShortURL, error)
	CodeExists(ctx context.Context, code Code) (bool, error)
	// ListByOwner returns the owner's URLs, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*ShortURL, error)
	Delete(ctx context.Context, shortURL *ShortURL) error
	IncrementClickCount(ctx context.Context, id string) error
}
