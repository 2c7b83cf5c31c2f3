package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/linkvault/internal/shortener"
	"go.uber.org/zap"
)

// DefaultCacheTTL is how long a resolved code stays cached.
const DefaultCacheTTL = time.Hour

// RedisCacheRepository wraps a Repository with Redis caching for code lookups.
// Only GetByCode is served from the cache; click counts in cached entries are
// not maintained and everything else goes to the underlying store.
//
// Delete leaves a tombstone for the code that lives as long as a cache entry.
// While it exists lookups bypass the cache, and a read-through that raced with
// the delete evicts what it wrote.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator. A
// non-positive ttl means DefaultCacheTTL.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger,
) *RedisCacheRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &RedisCacheRepository{
		store:  store,
		client: client,
		logger: logger,
		prefix: "url:",
		ttl:    ttl,
	}
}

// Create stores a short URL in the underlying store and updates the cache.
func (r *RedisCacheRepository) Create(ctx context.Context, shortURL *shortener.ShortURL) error {
	if err := r.store.Create(ctx, shortURL); err != nil {
		return err
	}

	// A code can be reused after its URL was deleted.
	if err := r.client.Del(ctx, r.tombstoneKey(shortURL.Code)).Err(); err != nil {
		r.logger.Warn("failed to clear cache tombstone",
			zap.String("code", string(shortURL.Code)), zap.Error(err))

		return nil
	}

	r.cacheURL(ctx, shortURL)

	return nil
}

func (r *RedisCacheRepository) GetByID(ctx context.Context, id string) (*shortener.ShortURL, error) {
	return r.store.GetByID(ctx, id)
}

// GetByCode retrieves a short URL by its code, checking cache first.
func (r *RedisCacheRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	cached, usable := r.getFromCache(ctx, code)
	if cached != nil {
		return cached, nil
	}

	url, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !usable {
		return url, nil
	}

	r.cacheURL(ctx, url)

	// Delete may have run between the store read and the cache write.
	if deleted, err := r.client.Exists(ctx, r.tombstoneKey(code)).Result(); err != nil || deleted > 0 {
		r.evict(ctx, code)
	}

	return url, nil
}

func (r *RedisCacheRepository) CodeExists(ctx context.Context, code shortener.Code) (bool, error) {
	return r.store.CodeExists(ctx, code)
}

func (r *RedisCacheRepository) ListByOwner(ctx context.Context, ownerID string) ([]*shortener.ShortURL, error) {
	return r.store.ListByOwner(ctx, ownerID)
}

// Delete removes the short URL from the store, tombstones its code and evicts
// its cache entry.
func (r *RedisCacheRepository) Delete(ctx context.Context, shortURL *shortener.ShortURL) error {
	if err := r.store.Delete(ctx, shortURL); err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.tombstoneKey(shortURL.Code), 1, r.ttl)
	pipe.Del(ctx, r.key(shortURL.Code))

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("failed to evict deleted url from cache",
			zap.String("code", string(shortURL.Code)),
			zap.String("urlId", shortURL.ID),
			zap.Error(err),
		)
	}

	return nil
}

func (r *RedisCacheRepository) IncrementClickCount(ctx context.Context, id string) error {
	return r.store.IncrementClickCount(ctx, id)
}

func (r *RedisCacheRepository) key(code shortener.Code) string {
	return r.prefix + string(code)
}

// Codes never contain ':' so tombstones cannot collide with entries.
func (r *RedisCacheRepository) tombstoneKey(code shortener.Code) string {
	return r.prefix + "deleted:" + string(code)
}

// getFromCache returns the cached entry, if any, and whether the cache may be
// populated for code. Redis errors and tombstones both disable caching.
func (r *RedisCacheRepository) getFromCache(ctx context.Context, code shortener.Code) (*shortener.ShortURL, bool) {
	pipe := r.client.Pipeline()
	deleted := pipe.Exists(ctx, r.tombstoneKey(code))
	entry := pipe.HGetAll(ctx, r.key(code))

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Debug("cache lookup failed", zap.String("code", string(code)), zap.Error(err))

		return nil, false
	}

	if deleted.Val() > 0 {
		return nil, false
	}

	result := entry.Val()
	if len(result) == 0 {
		return nil, true
	}

	var createdAt time.Time

	if ts, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	return &shortener.ShortURL{
		ID:          result["id"],
		Code:        shortener.Code(result["code"]),
		OriginalURL: result["original_url"],
		OwnerID:     result["owner_id"],
		CreatedAt:   createdAt,
	}, true
}

func (r *RedisCacheRepository) evict(ctx context.Context, code shortener.Code) {
	if err := r.client.Del(ctx, r.key(code)).Err(); err != nil {
		r.logger.Error("failed to evict cache entry", zap.String("code", string(code)), zap.Error(err))
	}
}

func (r *RedisCacheRepository) cacheURL(ctx context.Context, url *shortener.ShortURL) {
	pipe := r.client.Pipeline()
	key := r.key(url.Code)

	pipe.HSet(ctx, key, map[string]interface{}{
		"id":           url.ID,
		"code":         string(url.Code),
		"original_url": url.OriginalURL,
		"owner_id":     url.OwnerID,
		"created_at":   url.CreatedAt.UnixNano(),
	})

	pipe.Expire(ctx, key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Debug("failed to cache url", zap.String("code", string(url.Code)), zap.Error(err))
	}
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
