package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// APITitle names the service in the generated OpenAPI document.
const APITitle = "LinkVault"

var cookieAuth = []map[string][]string{{CookieAuthScheme: {}}}

// NewAPIConfig returns the huma configuration shared by every binary and test.
func NewAPIConfig(version string) huma.Config {
	config := huma.DefaultConfig(APITitle, version)
	// Bodies are enveloped, so no $schema links.
	config.CreateHooks = nil

	if config.Components.SecuritySchemes == nil {
		config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}

	config.Components.SecuritySchemes[CookieAuthScheme] = &huma.SecurityScheme{
		Type: "apiKey",
		In:   "cookie",
		Name: AccessTokenCookie,
	}

	return config
}

// RequiresAuth reports whether op declares the cookie security requirement.
func RequiresAuth(op *huma.Operation) bool {
	if op == nil {
		return false
	}

	for _, requirement := range op.Security {
		if _, ok := requirement[CookieAuthScheme]; ok {
			return true
		}
	}

	return false
}

// RegisterRoutes registers the auth and URL routes.
func RegisterRoutes(api huma.API, authHandler *AuthHandler, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/auth/signup",
		Summary:       "Create an account",
		Description:   "Registers a user and starts a session by setting the access token cookie.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, authHandler.Signup)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in",
		Description: "Checks the credentials and sets a fresh access token cookie.",
		Tags:        []string{"Auth"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, authHandler.Login)

	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodDelete,
		Path:        "/auth/logout",
		Summary:     "Log out",
		Description: "Clears the access token cookie.",
		Tags:        []string{"Auth"},
		Security:    cookieAuth,
		Errors:      []int{http.StatusUnauthorized},
	}, authHandler.Logout)

	huma.Register(api, huma.Operation{
		OperationID:   "create-url",
		Method:        http.MethodPost,
		Path:          "/urls",
		Summary:       "Create short URL",
		Description:   "Shortens a URL, using the custom code when one is given.",
		Tags:          []string{"URLs"},
		Security:      cookieAuth,
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusConflict},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "list-urls",
		Method:      http.MethodGet,
		Path:        "/urls",
		Summary:     "List short URLs",
		Description: "Lists the caller's short URLs, newest first.",
		Tags:        []string{"URLs"},
		Security:    cookieAuth,
		Errors:      []int{http.StatusUnauthorized},
	}, urlHandler.ListURLs)

	huma.Register(api, huma.Operation{
		OperationID: "delete-url",
		Method:      http.MethodDelete,
		Path:        "/urls/{id}",
		Summary:     "Delete short URL",
		Description: "Deletes one of the caller's short URLs.",
		Tags:        []string{"URLs"},
		Security:    cookieAuth,
		Errors: []int{
			http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound,
		},
	}, urlHandler.DeleteURL)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{shortCode}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL associated with the short code.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.RedirectToURL)
}
