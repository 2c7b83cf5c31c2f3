package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/serroba/linkvault/internal/handlers"
	"github.com/serroba/linkvault/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) handlers.ErrorEnvelope {
	t.Helper()

	var body handlers.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func TestRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	router := chi.NewMux()
	router.Use(middleware.Recoverer(zap.New(core)))
	router.Get("/boom", func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeEnvelope(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, handlers.MsgInternalError, body.Message)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/boom", fields["path"])
	assert.Equal(t, "boom", fields["panic"])
	assert.NotEmpty(t, fields["stack"])
}

func TestNotFound(t *testing.T) {
	router := chi.NewMux()
	router.NotFound(middleware.NotFound(zap.NewNop()))
	router.Get("/known", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/unknown/path", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, handlers.MsgResourceNotFound, decodeEnvelope(t, w).Message)
}

func TestCORS(t *testing.T) {
	router := chi.NewMux()
	router.Use(middleware.CORS("http://localhost:5173"))
	router.Get("/urls", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allows configured origin with credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/urls", nil)
		req.Header.Set("Origin", "http://localhost:5173")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("ignores other origins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/urls", nil)
		req.Header.Set("Origin", "https://evil.example")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
