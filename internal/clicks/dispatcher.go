package clicks

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/linkvault/internal/reqmeta"
	"github.com/serroba/linkvault/internal/shortener"
	"go.uber.org/zap"
)

// DefaultRecordTimeout bounds a single background record call.
const DefaultRecordTimeout = 5 * time.Second

// Dispatcher records clicks in the background so redirects never wait on the store.
// Failures are logged and dropped.
type Dispatcher struct {
	recorder Recorder
	logger   *zap.Logger
	timeout  time.Duration
	now      func() time.Time
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher that hands events to recorder.
func NewDispatcher(recorder Recorder, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		recorder: recorder,
		logger:   logger,
		timeout:  DefaultRecordTimeout,
		now:      time.Now,
	}
}

// Track implements shortener.ClickTracker.
func (d *Dispatcher) Track(ctx context.Context, shortURL *shortener.ShortURL) {
	meta := reqmeta.FromContext(ctx)
	event := &Event{
		URLID:     shortURL.ID,
		Code:      string(shortURL.Code),
		ClickedAt: d.now().UTC(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	// The request context is cancelled once the redirect is written.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.wg.Add(1)

	go func() {
		defer d.wg.Done()
		defer cancel()

		if err := d.recorder.Record(recordCtx, event); err != nil {
			d.logger.Warn("failed to record click",
				zap.String("urlId", event.URLID),
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}
	}()
}

// Shutdown waits for in-flight records to finish.
func (d *Dispatcher) Shutdown() error {
	d.wg.Wait()

	return nil
}
