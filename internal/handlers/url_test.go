package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/linkvault/internal/handlers"
	"github.com/serroba/linkvault/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShortURL(t *testing.T) {
	t.Run("creates url with custom code", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := srv.signup(t, "Jane Doe", "jane@example.com")

		w := srv.do(t, http.MethodPost, "/urls", map[string]string{
			"originalUrl": "https://long.example/path",
			"customCode":  "mylink",
		}, cookie)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		body := decode[handlers.URLView](t, w)
		assert.True(t, body.Success)
		assert.Equal(t, handlers.MsgURLCreated, body.Message)
		assert.Equal(t, "mylink", body.Data.ShortCode)
		assert.Equal(t, testBaseURL+"/mylink", body.Data.ShortURL)
		assert.Equal(t, "https://long.example/path", body.Data.OriginalURL)
		assert.Zero(t, body.Data.ClickCount)
		assert.NotEmpty(t, body.Data.ID)
	})

	t.Run("generates code when none given", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := srv.signup(t, "Jane Doe", "jane@example.com")

		w := srv.do(t, http.MethodPost, "/urls", map[string]string{
			"originalUrl": "https://long.example/path",
		}, cookie)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Len(t, decode[handlers.URLView](t, w).Data.ShortCode, 8)
	})

	t.Run("requires session", func(t *testing.T) {
		srv := newTestServer(t)

		w := srv.do(t, http.MethodPost, "/urls", map[string]string{
			"originalUrl": "https://long.example/path",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects taken custom code", func(t *testing.T) {
		srv := newTestServer(t)
		jane := srv.signup(t, "Jane Doe", "jane@example.com")
		john := srv.signup(t, "John Doe", "john@example.com")

		first := srv.do(t, http.MethodPost, "/urls", map[string]string{
			"originalUrl": "https://a.example", "customCode": "mylink",
		}, jane)
		require.Equal(t, http.StatusCreated, first.Code)

		w := srv.do(t, http.MethodPost, "/urls", map[string]string{
			"originalUrl": "https://b.example", "customCode": "mylink",
		}, john)

		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, handlers.MsgURLExists, decode[any](t, w).Message)
	})

	t.Run("rejects custom code shadowed by a route", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := srv.signup(t, "Jane Doe", "jane@example.com")

		w := srv.do(t, http.MethodPost, "/urls", map[string]string{
			"originalUrl": "https://a.example", "customCode": "health",
		}, cookie)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejects non-http url", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := srv.signup(t, "Jane Doe", "jane@example.com")

		w := srv.do(t, http.MethodPost, "/urls", map[string]string{
			"originalUrl": "ftp://files.example/archive",
		}, cookie)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, handlers.MsgInvalidURL, decode[any](t, w).Message)
	})

	t.Run("rejects malformed custom code", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := srv.signup(t, "Jane Doe", "jane@example.com")

		for _, code := range []string{"abc", "has space", strings.Repeat("a", 21)} {
			w := srv.do(t, http.MethodPost, "/urls", map[string]string{
				"originalUrl": "https://a.example", "customCode": code,
			}, cookie)

			require.Equal(t, http.StatusBadRequest, w.Code, code)
			assert.Contains(t, fieldsOf(decode[any](t, w).Error), "customCode", code)
		}
	})
}

func TestListURLs(t *testing.T) {
	t.Run("lists own urls newest first", func(t *testing.T) {
		srv := newTestServer(t)
		jane := srv.signup(t, "Jane Doe", "jane@example.com")
		john := srv.signup(t, "John Doe", "john@example.com")

		for _, code := range []string{"first", "second"} {
			w := srv.do(t, http.MethodPost, "/urls", map[string]string{
				"originalUrl": "https://a.example/" + code, "customCode": code,
			}, jane)
			require.Equal(t, http.StatusCreated, w.Code)

			time.Sleep(2 * time.Millisecond)
		}

		w := srv.do(t, http.MethodPost, "/urls", map[string]string{
			"originalUrl": "https://b.example", "customCode": "johns",
		}, john)
		require.Equal(t, http.StatusCreated, w.Code)

		w = srv.do(t, http.MethodGet, "/urls", nil, jane)
		require.Equal(t, http.StatusOK, w.Code)

		body := decode[handlers.URLList](t, w)
		assert.Equal(t, handlers.MsgURLsFetched, body.Message)
		assert.Equal(t, 2, body.Data.Total)
		require.Len(t, body.Data.URLs, 2)
		assert.Equal(t, "second", body.Data.URLs[0].ShortCode)
		assert.Equal(t, "first", body.Data.URLs[1].ShortCode)
	})

	t.Run("returns empty list", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := srv.signup(t, "Jane Doe", "jane@example.com")

		w := srv.do(t, http.MethodGet, "/urls", nil, cookie)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"urls":[]`)
		assert.Equal(t, 0, decode[handlers.URLList](t, w).Data.Total)
	})

	t.Run("hides store failures", func(t *testing.T) {
		srv := newTestServer(t, withURLRepository(failingURLs{store.NewMemoryStore()}))
		cookie := srv.signup(t, "Jane Doe", "jane@example.com")

		w := srv.do(t, http.MethodGet, "/urls", nil, cookie)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, handlers.MsgInternalError, decode[any](t, w).Message)
	})
}

func TestDeleteURL(t *testing.T) {
	srv := newTestServer(t)
	jane := srv.signup(t, "Jane Doe", "jane@example.com")
	john := srv.signup(t, "John Doe", "john@example.com")

	w := srv.do(t, http.MethodPost, "/urls", map[string]string{
		"originalUrl": "https://a.example", "customCode": "janes",
	}, jane)
	require.Equal(t, http.StatusCreated, w.Code)

	id := decode[handlers.URLView](t, w).Data.ID

	t.Run("forbids other owners", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/urls/"+id, nil, john)

		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, handlers.MsgURLForbidden, decode[any](t, w).Message)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/urls/not-a-uuid", nil, jane)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, fieldsOf(decode[any](t, w).Error), "id")
	})

	t.Run("reports unknown id", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/urls/"+uuid.NewString(), nil, jane)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, handlers.MsgURLNotFound, decode[any](t, w).Message)
	})

	t.Run("deletes own url", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/urls/"+id, nil, jane)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, handlers.MsgURLDeleted, decode[any](t, w).Message)

		w = srv.do(t, http.MethodGet, "/janes", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRedirectToURL(t *testing.T) {
	t.Run("redirects and counts click", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := srv.signup(t, "Jane Doe", "jane@example.com")

		w := srv.do(t, http.MethodPost, "/urls", map[string]string{
			"originalUrl": "https://long.example/path", "customCode": "mylink",
		}, cookie)
		require.Equal(t, http.StatusCreated, w.Code)

		w = srv.do(t, http.MethodGet, "/mylink", nil, nil)

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://long.example/path", w.Header().Get("Location"))

		require.NoError(t, srv.clicks.Shutdown())

		w = srv.do(t, http.MethodGet, "/urls", nil, cookie)
		body := decode[handlers.URLList](t, w)
		require.Len(t, body.Data.URLs, 1)
		assert.Equal(t, int64(1), body.Data.URLs[0].ClickCount)
	})

	t.Run("returns 404 for unknown code", func(t *testing.T) {
		srv := newTestServer(t)

		w := srv.do(t, http.MethodGet, "/nothing", nil, nil)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, handlers.MsgURLNotFound, decode[any](t, w).Message)
	})

	t.Run("hides store failures", func(t *testing.T) {
		srv := newTestServer(t, withURLRepository(failingURLs{store.NewMemoryStore()}))

		w := srv.do(t, http.MethodGet, "/mylink", nil, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/does/not/exist", nil, nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, handlers.MsgResourceNotFound, decode[any](t, w).Message)
}
