package middleware

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkvault/internal/reqmeta"
	"go.uber.org/zap"
)

// RequestLogger is a middleware that writes one access log line per request.
// It must run after RequestMeta to see the client IP.
func RequestLogger(logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		status := ctx.Status()
		fields := []zap.Field{
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.URL().Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("clientIp", reqmeta.FromContext(ctx.Context()).ClientIP),
		}

		if op := ctx.Operation(); op != nil {
			fields = append(fields, zap.String("operation", op.OperationID))
		}

		if status >= 500 {
			logger.Error("request completed", fields...)

			return
		}

		logger.Info("request completed", fields...)
	}
}
