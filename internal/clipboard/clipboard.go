// Package clipboard copies generated text to the system clipboard and keeps a
// transient "copied" flag that clears itself after a fixed delay.
package clipboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/stack-auth/stack-quickstart/internal/pubsub"
	"github.com/stack-auth/stack-quickstart/internal/status"
)

const DefaultCopiedTTL = 2000 * time.Millisecond

const EventStatusChanged pubsub.EventType = "clipboard_status_changed"

// Status is published whenever the copied flag flips.
type Status struct {
	Copied bool
}

// Timer is the part of *time.Timer the adapter needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d; time.AfterFunc satisfies it via WithAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

type Option func(*Adapter)

func WithWriter(w Writer) Option {
	return func(a *Adapter) { a.writer = w }
}

func WithTTL(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.ttl = d
		}
	}
}

func WithAfterFunc(fn AfterFunc) Option {
	return func(a *Adapter) { a.afterFunc = fn }
}

// Adapter wraps a Writer with the copied flag.
type Adapter struct {
	writer    Writer
	ttl       time.Duration
	afterFunc AfterFunc

	mu     sync.Mutex
	copied bool
	timer  Timer
	// gen identifies the latest successful copy; stale resets are ignored.
	gen uint64

	broker *pubsub.Broker[Status]
}

func New(opts ...Option) *Adapter {
	a := &Adapter{
		ttl: DefaultCopiedTTL,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		broker: pubsub.NewBroker[Status](),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.writer == nil {
		a.writer = SystemWriter(false)
	}
	return a
}

// Copy writes text and reports whether it succeeded. Failures are logged and
// published on the status service, never returned. A success restarts the
// reset window, so the flag stays set until TTL after the latest copy.
func (a *Adapter) Copy(ctx context.Context, text string) bool {
	if text == "" {
		slog.Warn("Clipboard copy skipped", "error", ErrEmpty)
		status.Warn("Nothing to copy yet")
		return false
	}

	if err := a.writer.Write(ctx, text); err != nil {
		slog.Error("Failed to copy to clipboard", "error", err)
		status.Error("Failed to copy to clipboard")
		return false
	}

	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	wasCopied := a.copied
	a.copied = true
	a.timer = a.afterFunc(a.ttl, func() { a.reset(gen) })
	a.mu.Unlock()

	slog.Debug("Copied to clipboard", "bytes", len(text))
	if !wasCopied {
		a.broker.Publish(EventStatusChanged, Status{Copied: true})
	}
	return true
}

func (a *Adapter) reset(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || !a.copied {
		a.mu.Unlock()
		return
	}
	a.copied = false
	a.timer = nil
	a.mu.Unlock()

	a.broker.Publish(EventStatusChanged, Status{Copied: false})
}

func (a *Adapter) Copied() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.copied
}

func (a *Adapter) TTL() time.Duration {
	return a.ttl
}

func (a *Adapter) Subscribe(ctx context.Context) <-chan pubsub.Event[Status] {
	return a.broker.Subscribe(ctx)
}

// Close cancels a pending reset and ends all subscriptions.
func (a *Adapter) Close() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
	a.mu.Unlock()
	a.broker.Shutdown()
}
