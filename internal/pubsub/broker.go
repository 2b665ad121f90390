package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultChannelBufferSize = 64
	slowSubscriberTimeout    = 2 * time.Second
)

// Broker fans events out to every live subscriber. Subscriptions end when
// their context is cancelled or the broker is shut down.
type Broker[T any] struct {
	subs     map[chan Event[T]]context.CancelFunc
	mu       sync.RWMutex
	isClosed bool
}

func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: make(map[chan Event[T]]context.CancelFunc),
	}
}

func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	if b.isClosed {
		b.mu.Unlock()
		return
	}
	b.isClosed = true

	for ch, cancel := range b.subs {
		cancel()
		close(ch)
		delete(b.subs, ch)
	}
	b.mu.Unlock()
	slog.Debug("PubSub broker shut down", "type", fmt.Sprintf("%T", *new(T)))
}

func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isClosed {
		closedCh := make(chan Event[T])
		close(closedCh)
		return closedCh
	}

	subCtx, subCancel := context.WithCancel(ctx)
	ch := make(chan Event[T], defaultChannelBufferSize)
	b.subs[ch] = subCancel

	go func() {
		<-subCtx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			close(ch)
			delete(b.subs, ch)
		}
	}()

	return ch
}

// Publish never blocks the caller. A full subscriber gets the event from a
// helper goroutine, so ordering is only guaranteed for subscribers that keep up.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.isClosed {
		slog.Warn("Attempted to publish on a closed pubsub broker", "type", eventType, "payload_type", fmt.Sprintf("%T", payload))
		return
	}

	event := Event[T]{Type: eventType, Payload: payload}

	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			go b.deliverSlow(ch, event)
		}
	}
}

func (b *Broker[T]) deliverSlow(ch chan Event[T], ev Event[T]) {
	defer func() {
		// the subscription may have been closed while we waited
		_ = recover()
	}()

	b.mu.RLock()
	closed := b.isClosed
	_, live := b.subs[ch]
	b.mu.RUnlock()
	if closed || !live {
		return
	}

	select {
	case ch <- ev:
	case <-time.After(slowSubscriberTimeout):
		slog.Warn("PubSub: dropped event for slow subscriber", "type", ev.Type)
	}
}

func (b *Broker[T]) GetSubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
