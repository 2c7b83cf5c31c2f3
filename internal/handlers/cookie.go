package handlers

import (
	"net/http"
	"time"
)

const (
	// AccessTokenCookie carries the session token.
	AccessTokenCookie = "accessToken"
	// CookieAuthScheme is the OpenAPI security scheme of cookie-authenticated operations.
	CookieAuthScheme = "cookieAuth"

	// DefaultCookieTTL is the browser lifetime of the session cookie.
	DefaultCookieTTL = 24 * time.Hour

	// EnvProduction is the environment whose session cookie must survive cross-site requests.
	EnvProduction = "production"
)

// CookieConfig decides the attributes of the session cookie.
type CookieConfig struct {
	TTL      time.Duration
	Secure   bool
	SameSite http.SameSite
}

// NewCookieConfig returns cross-site cookie attributes in production and
// same-site ones everywhere else.
func NewCookieConfig(environment string, ttl time.Duration) CookieConfig {
	if ttl <= 0 {
		ttl = DefaultCookieTTL
	}

	if environment == EnvProduction {
		return CookieConfig{TTL: ttl, Secure: true, SameSite: http.SameSiteNoneMode}
	}

	return CookieConfig{TTL: ttl, Secure: false, SameSite: http.SameSiteLaxMode}
}

func (c CookieConfig) session(token string) http.Cookie {
	return http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c CookieConfig) cleared() http.Cookie {
	return http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}
