package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkvault/internal/auth"
	"github.com/serroba/linkvault/internal/shortener"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service *shortener.Service
	baseURL string
}

// NewURLHandler creates a new URL handler. baseURL prefixes every short link.
func NewURLHandler(service *shortener.Service, baseURL string) *URLHandler {
	return &URLHandler{service: service, baseURL: baseURL}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateURLRequest) (*CreateURLResponse, error) {
	principal, found := auth.PrincipalFromContext(ctx)
	if !found {
		return nil, huma.Error401Unauthorized(MsgUnauthorized)
	}

	shortURL, err := h.service.Create(ctx, principal.UserID, req.Body.OriginalURL, req.Body.CustomCode)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrCodeTaken):
			return nil, huma.Error409Conflict(MsgURLExists)
		case errors.Is(err, shortener.ErrInvalidURL):
			return nil, huma.Error400BadRequest(MsgInvalidURL)
		case errors.Is(err, shortener.ErrInvalidCode), errors.Is(err, shortener.ErrExhaustedRetries):
			return nil, huma.Error400BadRequest(MsgURLCreationFailed)
		default:
			return nil, huma.Error500InternalServerError(MsgInternalError)
		}
	}

	return &CreateURLResponse{Body: ok(MsgURLCreated, newURLView(h.baseURL, shortURL))}, nil
}

func (h *URLHandler) ListURLs(ctx context.Context, _ *struct{}) (*ListURLsResponse, error) {
	principal, found := auth.PrincipalFromContext(ctx)
	if !found {
		return nil, huma.Error401Unauthorized(MsgUnauthorized)
	}

	urls, err := h.service.ListByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, huma.Error500InternalServerError(MsgInternalError)
	}

	views := make([]URLView, 0, len(urls))
	for _, u := range urls {
		views = append(views, newURLView(h.baseURL, u))
	}

	return &ListURLsResponse{Body: ok(MsgURLsFetched, URLList{URLs: views, Total: len(views)})}, nil
}

func (h *URLHandler) DeleteURL(ctx context.Context, req *DeleteURLRequest) (*DeleteURLResponse, error) {
	principal, found := auth.PrincipalFromContext(ctx)
	if !found {
		return nil, huma.Error401Unauthorized(MsgUnauthorized)
	}

	if err := h.service.Delete(ctx, principal.UserID, req.ID); err != nil {
		switch {
		case errors.Is(err, shortener.ErrForbidden):
			return nil, huma.Error403Forbidden(MsgURLForbidden)
		case errors.Is(err, shortener.ErrNotFound):
			return nil, huma.Error404NotFound(MsgURLNotFound)
		default:
			return nil, huma.Error500InternalServerError(MsgInternalError)
		}
	}

	return &DeleteURLResponse{Body: MessageBody{Success: true, Message: MsgURLDeleted}}, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	originalURL, err := h.service.Resolve(ctx, req.Code)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound(MsgURLNotFound)
		}

		return nil, huma.Error500InternalServerError(MsgInternalError)
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: originalURL,
	}, nil
}
