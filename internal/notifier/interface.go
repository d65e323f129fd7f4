package notifier

import (
	"context"
	"time"
)

// Subscriber receives pipeline events.
type Subscriber interface {
	Notify(ctx context.Context, event Event) error
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, event Event) error

func (f SubscriberFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// ProgressFunc is called after each file with the run's counters.
type ProgressFunc func(name string, total, processed int, remaining time.Duration)

// StatusFunc is called with human-readable status lines and errors.
type StatusFunc func(name, status string)
