package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkvault/internal/auth"
	"github.com/serroba/linkvault/internal/shortener"
)

const (
	constraintUserEmail = "users_email_key"
	constraintURLCode   = "short_urls_code_key"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Create(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO short_urls (id, code, original_url, owner_id, click_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		shortURL.ID,
		string(shortURL.Code),
		shortURL.OriginalURL,
		shortURL.OwnerID,
		shortURL.ClickCount,
		shortURL.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintURLCode) {
			return shortener.ErrCodeTaken
		}

		return fmt.Errorf("insert short url: %w", err)
	}

	return nil
}

func (p *PostgresStore) GetByID(ctx context.Context, id string) (*shortener.ShortURL, error) {
	query := `
		SELECT id, code, original_url, owner_id, click_count, created_at
		FROM short_urls
		WHERE id = $1
	`

	return p.getOne(ctx, query, id)
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT id, code, original_url, owner_id, click_count, created_at
		FROM short_urls
		WHERE code = $1
	`

	return p.getOne(ctx, query, string(code))
}

func (p *PostgresStore) CodeExists(ctx context.Context, code shortener.Code) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM short_urls WHERE code = $1)`,
		string(code),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("probe short code: %w", err)
	}

	return exists, nil
}

func (p *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]*shortener.ShortURL, error) {
	query := `
		SELECT id, code, original_url, owner_id, click_count, created_at
		FROM short_urls
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list short urls: %w", err)
	}

	urls, err := pgx.CollectRows(rows, scanShortURL)
	if err != nil {
		return nil, fmt.Errorf("scan short urls: %w", err)
	}

	return urls, nil
}

func (p *PostgresStore) Delete(ctx context.Context, shortURL *shortener.ShortURL) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM short_urls WHERE id = $1`, shortURL.ID)
	if err != nil {
		return fmt.Errorf("delete short url: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) IncrementClickCount(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE short_urls SET click_count = click_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment click count: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) getOne(ctx context.Context, query string, arg any) (*shortener.ShortURL, error) {
	rows, err := p.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query short url: %w", err)
	}

	url, err := pgx.CollectExactlyOneRow(rows, scanShortURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("scan short url: %w", err)
	}

	return url, nil
}

func scanShortURL(row pgx.CollectableRow) (*shortener.ShortURL, error) {
	var (
		url  shortener.ShortURL
		code string
	)

	err := row.Scan(&url.ID, &code, &url.OriginalURL, &url.OwnerID, &url.ClickCount, &url.CreatedAt)
	if err != nil {
		return nil, err
	}

	url.Code = shortener.Code(code)

	return &url, nil
}

// PostgresUserStore is a PostgreSQL implementation of auth.UserRepository.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a new PostgreSQL-backed user store.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (p *PostgresUserStore) Create(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, constraintUserEmail) {
			return auth.ErrEmailTaken
		}

		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (p *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	return p.getOne(ctx, query, email)
}

func (p *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*auth.User, error) {
	var user auth.User

	err := p.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}

		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// isUniqueViolation reports whether err is a unique violation of constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraint
}

// Compile-time checks.
var (
	_ shortener.Repository = (*PostgresStore)(nil)
	_ auth.UserRepository  = (*PostgresUserStore)(nil)
)
