package clicks

import (
	"context"
	"errors"

	"github.com/serroba/linkvault/internal/messaging"
	"github.com/serroba/linkvault/internal/shortener"
	"go.uber.org/zap"
)

// NewCountingHandler returns a stream handler that increments click counts.
// Errors are logged and swallowed, so a lost click is never redelivered.
func NewCountingHandler(counter Counter, logger *zap.Logger) messaging.Handler[Event] {
	return func(ctx context.Context, event *Event) error {
		err := counter.IncrementClickCount(ctx, event.URLID)

		switch {
		case err == nil:
			logger.Debug("click counted",
				zap.String("urlId", event.URLID),
				zap.String("code", event.Code),
			)
		case errors.Is(err, shortener.ErrNotFound):
			logger.Info("click for deleted url dropped",
				zap.String("urlId", event.URLID),
				zap.String("code", event.Code),
			)
		default:
			logger.Warn("failed to count click",
				zap.String("urlId", event.URLID),
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}

		return nil
	}
}
