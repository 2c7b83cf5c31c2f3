package store

import (
	"context"
	"sort"
	"sync"

	"github.com/serroba/linkvault/internal/auth"
	"github.com/serroba/linkvault/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*shortener.ShortURL
	byCode map[shortener.Code]string // code -> id
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*shortener.ShortURL),
		byCode: make(map[shortener.Code]string),
	}
}

func (m *MemoryStore) Create(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byCode[shortURL.Code]; ok {
		return shortener.ErrCodeTaken
	}

	stored := *shortURL
	m.byID[stored.ID] = &stored
	m.byCode[stored.Code] = stored.ID

	return nil
}

func (m *MemoryStore) GetByID(_ context.Context, id string) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shortURL, ok := m.byID[id]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	found := *shortURL

	return &found, nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	found := *m.byID[id]

	return &found, nil
}

func (m *MemoryStore) CodeExists(_ context.Context, code shortener.Code) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byCode[code]

	return ok, nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	urls := make([]*shortener.ShortURL, 0)

	for _, shortURL := range m.byID {
		if shortURL.OwnerID == ownerID {
			found := *shortURL
			urls = append(urls, &found)
		}
	}

	// Ties on created_at are broken by id, like the postgres store.
	sort.Slice(urls, func(i, j int) bool {
		if !urls[i].CreatedAt.Equal(urls[j].CreatedAt) {
			return urls[i].CreatedAt.After(urls[j].CreatedAt)
		}

		return urls[i].ID > urls[j].ID
	})

	return urls, nil
}

func (m *MemoryStore) Delete(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.byID[shortURL.ID]
	if !ok {
		return shortener.ErrNotFound
	}

	delete(m.byID, stored.ID)
	delete(m.byCode, stored.Code)

	return nil
}

func (m *MemoryStore) IncrementClickCount(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shortURL, ok := m.byID[id]
	if !ok {
		return shortener.ErrNotFound
	}

	shortURL.ClickCount++

	return nil
}

// MemoryUserStore is an in-memory implementation of auth.UserRepository.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]*auth.User
	byEmail map[string]string // email -> id
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*auth.User),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryUserStore) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[user.Email]; ok {
		return auth.ErrEmailTaken
	}

	stored := *user
	m.byID[stored.ID] = &stored
	m.byEmail[stored.Email] = stored.ID

	return nil
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	found := *m.byID[id]

	return &found, nil
}

// Compile-time checks.
var (
	_ shortener.Repository = (*MemoryStore)(nil)
	_ auth.UserRepository  = (*MemoryUserStore)(nil)
)
