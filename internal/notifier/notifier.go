package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nguyentantai21042004/video-context/internal/logger"
)

// Notifier fans events out to subscribers in subscription order and holds
// the single-slot progress and status callbacks.
type Notifier struct {
	name   string
	logger logger.Logger

	mu          sync.Mutex
	subscribers []Subscriber
	progress    ProgressFunc
	status      StatusFunc
}

func New(name string, log logger.Logger) *Notifier {
	return &Notifier{name: name, logger: log}
}

// Subscribe appends s. Duplicates are kept and notified twice.
func (n *Notifier) Subscribe(s Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, s)
}

func (n *Notifier) SetProgressCallback(fn ProgressFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.progress = fn
}

func (n *Notifier) SetStatusCallback(fn StatusFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = fn
}

// Notify delivers event to every subscriber. A failing or panicking subscriber
// is logged and skipped; the joined delivery errors are returned.
func (n *Notifier) Notify(ctx context.Context, event Event) error {
	n.mu.Lock()
	subs := append([]Subscriber(nil), n.subscribers...)
	n.mu.Unlock()

	var errs []error
	for i, s := range subs {
		if err := deliver(ctx, s, event); err != nil {
			n.logger.Error(ctx, "Subscriber %d failed to handle %s: %v", i, event.Kind, err)
			errs = append(errs, fmt.Errorf("subscriber %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func deliver(ctx context.Context, s Subscriber, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Notify(ctx, event)
}

// Status logs msg and forwards it to the status callback.
func (n *Notifier) Status(ctx context.Context, msg string, args ...interface{}) {
	status := fmt.Sprintf(msg, args...)
	n.logger.Info(ctx, "[%s] %s", n.name, status)

	n.mu.Lock()
	fn := n.status
	n.mu.Unlock()
	if fn != nil {
		fn(n.name, status)
	}
}

func (n *Notifier) Progress(total, processed int, remaining time.Duration) {
	n.mu.Lock()
	fn := n.progress
	n.mu.Unlock()
	if fn != nil {
		fn(n.name, total, processed, remaining)
	}
}
