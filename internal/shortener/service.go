package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClickTracker is notified about every resolved short URL. Implementations must
// return immediately; counting happens out of band.
type ClickTracker interface {
	Track(ctx context.Context, shortURL *ShortURL)
}

// Service orchestrates creation, listing, resolution and deletion of short URLs.
type Service struct {
	store     Repository
	allocator *Allocator
	clicks    ClickTracker
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a URL service.
func NewService(store Repository, allocator *Allocator, clicks ClickTracker, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		allocator: allocator,
		clicks:    clicks,
		logger:    logger,
		now:       time.Now,
	}
}

// Create shortens originalURL on behalf of ownerID, using customCode when given.
func (s *Service) Create(ctx context.Context, ownerID, originalURL, customCode string) (*ShortURL, error) {
	log := s.logger.With(zap.String("op", "shortener.Create"), zap.String("ownerId", ownerID))

	if err := ValidateOriginalURL(originalURL); err != nil {
		log.Info("rejected original url", zap.String("originalUrl", originalURL))

		return nil, err
	}

	for attempt := 1; ; attempt++ {
		code, err := s.allocator.Allocate(ctx, customCode)
		if err != nil {
			log.Warn("code allocation failed", zap.String("customCode", customCode), zap.Error(err))

			return nil, err
		}

		shortURL := &ShortURL{
			ID:          uuid.NewString(),
			Code:        code,
			OriginalURL: originalURL,
			OwnerID:     ownerID,
			ClickCount:  0,
			CreatedAt:   s.now().UTC(),
		}

		err = s.store.Create(ctx, shortURL)
		if err == nil {
			log.Info("short url created", zap.String("code", string(code)))

			return shortURL, nil
		}

		if !errors.Is(err, ErrCodeTaken) {
			log.Error("failed to save short url", zap.String("code", string(code)), zap.Error(err))

			return nil, fmt.Errorf("save short url: %w", err)
		}

		// Lost the race between the probe and the insert.
		if customCode != "" {
			return nil, ErrCodeTaken
		}

		if attempt >= MaxAttempts {
			log.Error("generated codes kept colliding on insert", zap.Int("attempts", attempt))

			return nil, ErrExhaustedRetries
		}

		log.Debug("generated code collided on insert, retrying", zap.String("code", string(code)))
	}
}

// ListByOwner returns every short URL owned by ownerID, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*ShortURL, error) {
	urls, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list urls",
			zap.String("op", "shortener.ListByOwner"),
			zap.String("ownerId", ownerID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("list urls: %w", err)
	}

	if urls == nil {
		urls = []*ShortURL{}
	}

	return urls, nil
}

// Resolve returns the original URL for code and schedules a click count increment.
func (s *Service) Resolve(ctx context.Context, code string) (string, error) {
	shortURL, err := s.store.GetByCode(ctx, Code(code))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}

		s.logger.Error("failed to resolve code",
			zap.String("op", "shortener.Resolve"),
			zap.String("code", code),
			zap.Error(err),
		)

		return "", fmt.Errorf("resolve code: %w", err)
	}

	s.clicks.Track(ctx, shortURL)

	return shortURL.OriginalURL, nil
}

// Delete removes urlID if it belongs to ownerID.
func (s *Service) Delete(ctx context.Context, ownerID, urlID string) error {
	log := s.logger.With(
		zap.String("op", "shortener.Delete"),
		zap.String("ownerId", ownerID),
		zap.String("urlId", urlID),
	)

	shortURL, err := s.store.GetByID(ctx, urlID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		log.Error("failed to load url", zap.Error(err))

		return fmt.Errorf("load url: %w", err)
	}

	if shortURL.OwnerID != ownerID {
		log.Warn("delete attempted by non-owner")

		return ErrForbidden
	}

	if err = s.store.Delete(ctx, shortURL); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		log.Error("failed to delete url", zap.Error(err))

		return fmt.Errorf("delete url: %w", err)
	}

	log.Info("short url deleted", zap.String("code", string(shortURL.Code)))

	return nil
}
