package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/linkvault/internal/auth"
	"github.com/serroba/linkvault/internal/clicks"
	"github.com/serroba/linkvault/internal/handlers"
	"github.com/serroba/linkvault/internal/middleware"
	"github.com/serroba/linkvault/internal/shortener"
	"github.com/serroba/linkvault/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testBaseURL = "http://localhost:9000"

var errMock = errors.New("mock error")

type testServer struct {
	router *chi.Mux
	urls   *store.MemoryStore
	clicks *clicks.Dispatcher
}

type serverOption func(*serverDeps)

type serverDeps struct {
	users       auth.UserRepository
	urls        shortener.Repository
	environment string
}

func withUserRepository(users auth.UserRepository) serverOption {
	return func(d *serverDeps) { d.users = users }
}

func withURLRepository(urls shortener.Repository) serverOption {
	return func(d *serverDeps) { d.urls = urls }
}

func withEnvironment(env string) serverOption {
	return func(d *serverDeps) { d.environment = env }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	logger := zap.NewNop()
	memURLs := store.NewMemoryStore()
	deps := serverDeps{
		users:       store.NewMemoryUserStore(),
		urls:        memURLs,
		environment: "development",
	}

	for _, opt := range opts {
		opt(&deps)
	}

	authService, err := auth.NewService(
		deps.users,
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewJWTIssuer("test-secret", time.Hour),
		logger,
	)
	require.NoError(t, err)

	generator, err := shortener.NewCodeGenerator(shortener.DefaultCodeLength)
	require.NoError(t, err)

	dispatcher := clicks.NewDispatcher(clicks.NewCounterRecorder(deps.urls), logger)
	urlService := shortener.NewService(deps.urls, shortener.NewAllocator(deps.urls, generator), dispatcher, logger)

	router := chi.NewMux()
	router.Use(middleware.Recoverer(logger))
	router.NotFound(middleware.NotFound(logger))
	router.MethodNotAllowed(middleware.NotFound(logger))

	api := humachi.New(router, handlers.NewAPIConfig("test"))
	api.UseMiddleware(middleware.RequestMeta(api), middleware.Authenticate(api, authService))

	handlers.RegisterRoutes(api,
		handlers.NewAuthHandler(authService, handlers.NewCookieConfig(deps.environment, 0), logger),
		handlers.NewURLHandler(urlService, testBaseURL),
	)

	return &testServer{router: router, urls: memURLs, clicks: dispatcher}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	return w
}

// signup registers a user and returns its session cookie.
func (s *testServer) signup(t *testing.T, name, email string) *http.Cookie {
	t.Helper()

	w := s.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": "Secur3!@pass",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return sessionCookie(t, w)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == handlers.AccessTokenCookie {
			return c
		}
	}

	t.Fatal("no session cookie in response")

	return nil
}

type envelope[T any] struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    T                     `json:"data"`
	Error   []handlers.FieldError `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var body envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())

	return body
}

func fieldsOf(errs []handlers.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}

	return out
}

// failingUsers fails every call.
type failingUsers struct{}

func (failingUsers) Create(context.Context, *auth.User) error { return errMock }

func (failingUsers) GetByEmail(context.Context, string) (*auth.User, error) { return nil, errMock }

// failingURLs wraps a memory store and fails listing and lookups.
type failingURLs struct {
	*store.MemoryStore
}

func (failingURLs) ListByOwner(context.Context, string) ([]*shortener.ShortURL, error) {
	return nil, errMock
}

func (failingURLs) GetByCode(context.Context, shortener.Code) (*shortener.ShortURL, error) {
	return nil, errMock
}
