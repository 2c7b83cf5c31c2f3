package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkvault/internal/auth"
	"github.com/serroba/linkvault/internal/handlers"
	"github.com/serroba/linkvault/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	tokens map[string]*auth.Principal
}

func (f *fakeAuthenticator) Authenticate(token string) (*auth.Principal, error) {
	if p, ok := f.tokens[token]; ok {
		return p, nil
	}

	return nil, errors.New("bad token")
}

func TestAuthenticate(t *testing.T) {
	router, api := setupTestAPI(t)
	api.UseMiddleware(middleware.Authenticate(api, &fakeAuthenticator{
		tokens: map[string]*auth.Principal{"good": {UserID: "user-1", Email: "jane@example.com"}},
	}))

	huma.Register(api, huma.Operation{
		OperationID: "private",
		Method:      http.MethodGet,
		Path:        "/private",
		Security:    []map[string][]string{{handlers.CookieAuthScheme: {}}},
	}, func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		p, ok := auth.PrincipalFromContext(ctx)
		if !ok {
			return nil, huma.Error500InternalServerError("missing principal")
		}

		return &testOutput{Body: p.UserID}, nil
	})

	huma.Get(api, "/public", func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return &testOutput{Body: "public"}, nil
	})

	t.Run("passes valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: handlers.AccessTokenCookie, Value: "good"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"body":"user-1"}`, w.Body.String())
	})

	t.Run("rejects missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)

		var body handlers.ErrorEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, handlers.MsgUnauthorized, body.Message)
	})

	t.Run("rejects invalid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: handlers.AccessTokenCookie, Value: "forged"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skips operations without security", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/public", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
