package selection

import (
	"context"
	"testing"
	"time"

	"github.com/stack-auth/stack-quickstart/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle(t *testing.T) {
	t.Parallel()

	s := NewStore()
	assert.False(t, s.HasSelection())

	assert.True(t, s.Toggle("google"))
	assert.Equal(t, []string{"google"}, s.IDs())

	assert.True(t, s.Toggle("github"))
	assert.Equal(t, []string{"google", "github"}, s.IDs())

	assert.False(t, s.Toggle("google"))
	assert.Equal(t, []string{"github"}, s.IDs())
}

func TestToggleTwiceIsIdentity(t *testing.T) {
	t.Parallel()

	for _, start := range [][]string{nil, {"otp"}, {"google", "email"}} {
		s := NewStore(start...)
		before := s.IDs()
		s.Toggle("facebook")
		s.Toggle("facebook")
		assert.Equal(t, before, s.IDs())
	}
}

func TestToggleAcceptsUnknownIDs(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Toggle("not-a-provider")
	assert.True(t, s.Contains("not-a-provider"))
	assert.Equal(t, 1, s.Len())
}

func TestHasSelectionTracksSize(t *testing.T) {
	t.Parallel()

	s := NewStore()
	ops := []string{"google", "github", "google", "otp", "github", "otp"}
	for _, id := range ops {
		s.Toggle(id)
		assert.Equal(t, s.Len() > 0, s.HasSelection())
	}
	assert.False(t, s.HasSelection())
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := NewStore("google", "github")
	s.Clear()
	assert.False(t, s.HasSelection())
	assert.Empty(t, s.IDs())

	s.Clear()
	assert.False(t, s.HasSelection())
}

func TestNewStoreSkipsDuplicates(t *testing.T) {
	t.Parallel()

	s := NewStore("otp", "otp", "google")
	assert.Equal(t, []string{"otp", "google"}, s.IDs())
}

func TestIDsReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewStore("google")
	ids := s.IDs()
	ids[0] = "mutated"
	assert.Equal(t, []string{"google"}, s.IDs())
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	s := NewStore()
	defer s.Shutdown()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	s.Toggle("google")
	s.Clear()

	next := func() pubsub.Event[Changed] {
		select {
		case ev := <-ch:
			return ev
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for selection event")
		}
		return pubsub.Event[Changed]{}
	}

	ev := next()
	require.Equal(t, pubsub.EventTypeUpdated, ev.Type)
	assert.Equal(t, []string{"google"}, ev.Payload.IDs)

	ev = next()
	require.Equal(t, pubsub.EventTypeCleared, ev.Type)
	assert.Empty(t, ev.Payload.IDs)
}
