package clicks

import (
	"context"
	"fmt"

	"github.com/serroba/linkvault/internal/messaging"
)

// Recorder persists or forwards a click event.
type Recorder interface {
	Record(ctx context.Context, event *Event) error
}

// Counter increments the stored click count of a short URL.
type Counter interface {
	IncrementClickCount(ctx context.Context, id string) error
}

// CounterRecorder increments the click count directly in the store.
type CounterRecorder struct {
	counter Counter
}

// NewCounterRecorder creates a recorder that writes straight to counter.
func NewCounterRecorder(counter Counter) *CounterRecorder {
	return &CounterRecorder{counter: counter}
}

func (r *CounterRecorder) Record(ctx context.Context, event *Event) error {
	if err := r.counter.IncrementClickCount(ctx, event.URLID); err != nil {
		return fmt.Errorf("increment click count: %w", err)
	}

	return nil
}

// PublishRecorder forwards click events to the message stream.
type PublishRecorder struct {
	publish messaging.Publish[Event]
}

// NewPublishRecorder creates a recorder that publishes events with publish.
func NewPublishRecorder(publish messaging.Publish[Event]) *PublishRecorder {
	return &PublishRecorder{publish: publish}
}

func (r *PublishRecorder) Record(ctx context.Context, event *Event) error {
	if err := r.publish(ctx, event); err != nil {
		return fmt.Errorf("publish click event: %w", err)
	}

	return nil
}
