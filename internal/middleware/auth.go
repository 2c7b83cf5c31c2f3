package middleware

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkvault/internal/auth"
	"github.com/serroba/linkvault/internal/handlers"
)

// Authenticator turns a session token into a principal.
type Authenticator interface {
	Authenticate(token string) (*auth.Principal, error)
}

// Authenticate is a middleware that guards operations declaring the cookie
// security requirement. The verified principal is stored in the request context.
func Authenticate(api huma.API, authenticator Authenticator) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !handlers.RequiresAuth(ctx.Operation()) {
			next(ctx)

			return
		}

		var token string
		if cookie, err := huma.ReadCookie(ctx, handlers.AccessTokenCookie); err == nil {
			token = cookie.Value
		}

		principal, err := authenticator.Authenticate(token)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, handlers.MsgUnauthorized)

			return
		}

		ctx = huma.WithContext(ctx, auth.ContextWithPrincipal(ctx.Context(), principal))

		next(ctx)
	}
}
