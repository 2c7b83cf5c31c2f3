package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkvault/internal/auth"
	"go.uber.org/zap"
)

type passwordRule struct {
	chars   string
	message string
}

func (r passwordRule) matches(password string) bool {
	return strings.ContainsAny(password, r.chars)
}

var passwordRules = []passwordRule{
	{chars: "abcdefghijklmnopqrstuvwxyz", message: "Password must contain at least one lowercase letter"},
	{chars: "ABCDEFGHIJKLMNOPQRSTUVWXYZ", message: "Password must contain at least one uppercase letter"},
	{chars: "0123456789", message: "Password must contain at least one number"},
	{chars: "@$!%*?&#", message: "Password must contain at least one special character"},
}

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	service *auth.Service
	cookies CookieConfig
	logger  *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *auth.Service, cookies CookieConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies, logger: logger}
}

func (h *AuthHandler) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	session, err := h.service.Signup(ctx, auth.SignupInput{
		Name:     req.Body.Name,
		Email:    req.Body.Email,
		Password: req.Body.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return nil, huma.Error409Conflict(MsgUserExists)
		}

		return nil, huma.Error500InternalServerError(MsgInternalError)
	}

	return &AuthResponse{
		SetCookie: h.cookies.session(session.Token),
		Body:      ok(MsgUserCreated, newUserView(session.User)),
	}, nil
}

func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	session, err := h.service.Login(ctx, auth.LoginInput{
		Email:    req.Body.Email,
		Password: req.Body.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized(MsgInvalidCredentials)
		}

		return nil, huma.Error500InternalServerError(MsgInternalError)
	}

	return &AuthResponse{
		SetCookie: h.cookies.session(session.Token),
		Body:      ok(MsgLoginSuccessful, newUserView(session.User)),
	}, nil
}

// Logout clears the session cookie. Tokens are stateless and stay valid until they expire.
func (h *AuthHandler) Logout(ctx context.Context, _ *struct{}) (*LogoutResponse, error) {
	if p, found := auth.PrincipalFromContext(ctx); found {
		h.logger.Info("user logged out", zap.String("userId", p.UserID))
	}

	return &LogoutResponse{
		SetCookie: h.cookies.cleared(),
		Body:      MessageBody{Success: true, Message: MsgLogoutSuccessful},
	}, nil
}
