package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/serroba/linkvault/internal/handlers"
	"go.uber.org/zap"
)

// Recoverer turns panics into a 500 envelope and logs them with the stack.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				// Let net/http abort the connection as usual.
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel is compared by identity
					panic(rec)
				}

				logger.Error("unhandled panic",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)

				handlers.WriteError(w, http.StatusInternalServerError, handlers.MsgInternalError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// NotFound answers unknown routes with a 404 envelope.
func NotFound(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Info("resource not found",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)

		handlers.WriteError(w, http.StatusNotFound, handlers.MsgResourceNotFound)
	}
}
