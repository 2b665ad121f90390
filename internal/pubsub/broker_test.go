package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerSubscribe(t *testing.T) {
	t.Parallel()

	t.Run("with cancellable context", func(t *testing.T) {
		t.Parallel()
		broker := NewBroker[string]()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch := broker.Subscribe(ctx)
		assert.NotNil(t, ch)
		assert.Equal(t, 1, broker.GetSubscriberCount())

		cancel()
		assert.Eventually(t, func() bool {
			return broker.GetSubscriberCount() == 0
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("after shutdown", func(t *testing.T) {
		t.Parallel()
		broker := NewBroker[string]()
		broker.Shutdown()

		ch := broker.Subscribe(context.Background())
		_, ok := <-ch
		assert.False(t, ok, "subscribing to a closed broker yields a closed channel")
		assert.Equal(t, 0, broker.GetSubscriberCount())
	})
}

func TestBrokerPublish(t *testing.T) {
	t.Parallel()
	broker := NewBroker[[]string]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)
	broker.Publish(EventTypeUpdated, []string{"google", "github"})

	select {
	case event := <-ch:
		assert.Equal(t, EventTypeUpdated, event.Type)
		assert.Equal(t, []string{"google", "github"}, event.Payload)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
}

func TestBrokerPublishAfterShutdown(t *testing.T) {
	t.Parallel()
	broker := NewBroker[int]()
	broker.Shutdown()

	assert.NotPanics(t, func() {
		broker.Publish(EventTypeCreated, 1)
	})
}

func TestBrokerShutdown(t *testing.T) {
	t.Parallel()
	broker := NewBroker[string]()

	ch1 := broker.Subscribe(context.Background())
	ch2 := broker.Subscribe(context.Background())
	require.Equal(t, 2, broker.GetSubscriberCount())

	broker.Shutdown()
	broker.Shutdown()

	_, ok1 := <-ch1
	_, ok2 := <-ch2
	assert.False(t, ok1, "channel 1 should be closed")
	assert.False(t, ok2, "channel 2 should be closed")
	assert.Equal(t, 0, broker.GetSubscriberCount())
}

func TestBrokerSlowSubscriber(t *testing.T) {
	t.Parallel()
	broker := NewBroker[int]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)
	total := defaultChannelBufferSize + 5
	for i := range total {
		broker.Publish(EventTypeCreated, i)
	}

	received := 0
	timeout := time.After(time.Second)
	for received < total {
		select {
		case <-ch:
			received++
		case <-timeout:
			t.Fatalf("received %d of %d events", received, total)
		}
	}
}

func TestBrokerConcurrency(t *testing.T) {
	t.Parallel()
	broker := NewBroker[int]()

	const numSubscribers = 50
	var ready, done sync.WaitGroup
	ready.Add(numSubscribers)
	done.Add(numSubscribers)

	received := make(chan int, numSubscribers)
	for range numSubscribers {
		go func() {
			defer done.Done()
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			ch := broker.Subscribe(ctx)
			ready.Done()
			select {
			case event := <-ch:
				received <- event.Payload
			case <-time.After(time.Second):
				t.Error("timeout waiting for event")
			}
		}()
	}

	ready.Wait()
	broker.Publish(EventTypeCreated, 7)
	done.Wait()
	close(received)

	count := 0
	for v := range received {
		assert.Equal(t, 7, v)
		count++
	}
	assert.Equal(t, numSubscribers, count)
	assert.Eventually(t, func() bool {
		return broker.GetSubscriberCount() == 0
	}, time.Second, 5*time.Millisecond)
}
