package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkvault/internal/auth"
	"github.com/serroba/linkvault/internal/shortener"
)

// Envelope wraps every successful JSON body.
type Envelope[T any] struct {
	Success bool   `json:"success"           doc:"Always true"`
	Message string `json:"message,omitempty" doc:"Human readable summary"`
	Data    T      `json:"data"`
}

// MessageBody is a success envelope without data.
type MessageBody struct {
	Success bool   `json:"success" doc:"Always true"`
	Message string `json:"message" doc:"Human readable summary"`
}

func ok[T any](msg string, data T) Envelope[T] {
	return Envelope[T]{Success: true, Message: msg, Data: data}
}

// UserView is the public representation of a user.
type UserView struct {
	ID    string `json:"id"    doc:"User id"       example:"5f0b6f5e-8f7d-4d6b-9f43-0d8b1e2f3a4b"`
	Name  string `json:"name"  doc:"Display name"  example:"Jane Doe"`
	Email string `json:"email" doc:"Email address" example:"jane@example.com"`
}

func newUserView(u auth.PublicUser) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email}
}

// URLView is the public representation of a short URL.
type URLView struct {
	ID          string    `json:"id"          doc:"Short URL id"`
	OriginalURL string    `json:"originalUrl" doc:"The original URL"   example:"https://example.com/very/long/path"`
	ShortCode   string    `json:"shortCode"   doc:"The short code"     example:"mylink"`
	ShortURL    string    `json:"shortUrl"    doc:"The full short URL" example:"http://localhost:9000/mylink"`
	ClickCount  int64     `json:"clickCount"  doc:"Resolved redirects"`
	CreatedAt   time.Time `json:"createdAt"   doc:"Creation time"`
}

func newURLView(baseURL string, u *shortener.ShortURL) URLView {
	return URLView{
		ID:          u.ID,
		OriginalURL: u.OriginalURL,
		ShortCode:   string(u.Code),
		ShortURL:    shortener.ShortLink(baseURL, u.Code),
		ClickCount:  u.ClickCount,
		CreatedAt:   u.CreatedAt,
	}
}

// URLList is the body of the list operation.
type URLList struct {
	URLs  []URLView `json:"urls"`
	Total int       `json:"total" doc:"Number of URLs"`
}

// SignupRequest is the request body for creating an account.
type SignupRequest struct {
	Body struct {
		Name     string `json:"name"     doc:"Display name"  example:"Jane Doe"         minLength:"2" maxLength:"50" pattern:"^[A-Za-z]+( [A-Za-z]+)*$" patternDescription:"letters separated by single spaces"`
		Email    string `json:"email"    doc:"Email address" example:"jane@example.com" format:"email" minLength:"5" maxLength:"255"`
		Password string `json:"password" doc:"At least one lowercase, uppercase, digit and special character (@$!%*?&#)" example:"Secur3!@" minLength:"8" maxLength:"100"`
	}
}

var _ huma.Resolver = (*SignupRequest)(nil)

// Resolve enforces the password character classes, which JSON schema cannot express.
func (r *SignupRequest) Resolve(_ huma.Context) []error {
	var errs []error

	for _, rule := range passwordRules {
		if !rule.matches(r.Body.Password) {
			errs = append(errs, &huma.ErrorDetail{
				Location: "body.password",
				Message:  rule.message,
			})
		}
	}

	return errs
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Body struct {
		Email    string `json:"email"    doc:"Email address" example:"jane@example.com" format:"email" minLength:"5" maxLength:"255"`
		Password string `json:"password" doc:"Account password" example:"Secur3!@" minLength:"8" maxLength:"100"`
	}
}

// AuthResponse carries the signed-in user and the session cookie.
type AuthResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      Envelope[UserView]
}

// LogoutResponse clears the session cookie.
type LogoutResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      MessageBody
}

// CreateURLRequest is the request body for creating a short URL.
type CreateURLRequest struct {
	Body struct {
		OriginalURL string `json:"originalUrl"          doc:"The URL to shorten" example:"https://example.com/very/long/path" format:"uri" maxLength:"2048"`
		CustomCode  string `json:"customCode,omitempty" doc:"Optional custom short code" example:"mylink" minLength:"4" maxLength:"20" pattern:"^[A-Za-z0-9_-]+$" patternDescription:"letters, digits, underscores and hyphens"`
	}
}

// CreateURLResponse is the response for a successfully created short URL.
type CreateURLResponse struct {
	Body Envelope[URLView]
}

// ListURLsResponse lists the caller's short URLs.
type ListURLsResponse struct {
	Body Envelope[URLList]
}

// DeleteURLRequest identifies the short URL to delete.
type DeleteURLRequest struct {
	ID string `path:"id" doc:"Short URL id" format:"uuid"`
}

// DeleteURLResponse confirms a deletion.
type DeleteURLResponse struct {
	Body MessageBody
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `path:"shortCode" doc:"The short code" example:"mylink"`
}

// RedirectResponse is a redirect to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}
