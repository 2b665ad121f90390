package clipboard

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out timers that only fire from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

type recordingWriter struct {
	mu     sync.Mutex
	err    error
	copied []string
}

func (w *recordingWriter) Write(_ context.Context, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.copied = append(w.copied, text)
	return nil
}

func newTestAdapter(w Writer) (*Adapter, *fakeClock) {
	clock := &fakeClock{}
	a := New(WithWriter(w), WithAfterFunc(clock.AfterFunc))
	return a, clock
}

func TestCopySetsAndResets(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	a, clock := newTestAdapter(w)
	defer a.Close()

	require.False(t, a.Copied())
	require.True(t, a.Copy(context.Background(), "x"))
	assert.True(t, a.Copied(), "set immediately")
	assert.Equal(t, []string{"x"}, w.copied)

	clock.Advance(1999 * time.Millisecond)
	assert.True(t, a.Copied())

	clock.Advance(time.Millisecond)
	assert.False(t, a.Copied(), "cleared 2000ms after the copy")
}

func TestRepeatedCopyExtendsWindow(t *testing.T) {
	t.Parallel()

	a, clock := newTestAdapter(&recordingWriter{})
	defer a.Close()

	require.True(t, a.Copy(context.Background(), "first"))
	clock.Advance(500 * time.Millisecond)
	require.True(t, a.Copy(context.Background(), "second"))

	// the first copy's deadline at 2000ms passes without clearing the flag
	for now := 600 * time.Millisecond; now < 2500*time.Millisecond; now += 100 * time.Millisecond {
		clock.Advance(100 * time.Millisecond)
		assert.True(t, a.Copied(), "still copied at %s", now)
	}
	clock.Advance(100 * time.Millisecond)
	assert.False(t, a.Copied(), "cleared 2000ms after the second copy")
}

func TestStaleResetIgnored(t *testing.T) {
	t.Parallel()

	// a timer whose Stop arrives too late still runs its callback
	var callbacks []func()
	a := New(
		WithWriter(&recordingWriter{}),
		WithAfterFunc(func(_ time.Duration, f func()) Timer {
			callbacks = append(callbacks, f)
			return stopNoop{}
		}),
	)
	defer a.Close()

	require.True(t, a.Copy(context.Background(), "a"))
	require.True(t, a.Copy(context.Background(), "b"))
	require.Len(t, callbacks, 2)

	callbacks[0]()
	assert.True(t, a.Copied(), "reset from a superseded copy must not clear the flag")

	callbacks[1]()
	assert.False(t, a.Copied())
}

type stopNoop struct{}

func (stopNoop) Stop() bool { return false }

func TestCopyFailureLeavesStatus(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{err: errors.New("permission denied")}
	a, clock := newTestAdapter(w)
	defer a.Close()

	assert.False(t, a.Copy(context.Background(), "x"))
	assert.False(t, a.Copied())
	assert.Empty(t, clock.timers, "no reset scheduled for a failed copy")
}

func TestCopyFailureKeepsEarlierSuccess(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	a, clock := newTestAdapter(w)
	defer a.Close()

	require.True(t, a.Copy(context.Background(), "ok"))
	w.err = errors.New("clipboard gone")
	assert.False(t, a.Copy(context.Background(), "fails"))
	assert.True(t, a.Copied())

	clock.Advance(DefaultCopiedTTL)
	assert.False(t, a.Copied())
}

func TestCopyEmptyText(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	a, _ := newTestAdapter(w)
	defer a.Close()

	assert.False(t, a.Copy(context.Background(), ""))
	assert.Empty(t, w.copied)
}

func TestWithTTL(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	a := New(WithWriter(&recordingWriter{}), WithAfterFunc(clock.AfterFunc), WithTTL(300*time.Millisecond))
	defer a.Close()
	assert.Equal(t, 300*time.Millisecond, a.TTL())

	require.True(t, a.Copy(context.Background(), "x"))
	clock.Advance(300 * time.Millisecond)
	assert.False(t, a.Copied())

	assert.Equal(t, DefaultCopiedTTL, New(WithWriter(&recordingWriter{}), WithTTL(0)).TTL())
}

func TestSubscribePublishesTransitions(t *testing.T) {
	t.Parallel()

	a, clock := newTestAdapter(&recordingWriter{})
	defer a.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := a.Subscribe(ctx)

	require.True(t, a.Copy(ctx, "x"))
	require.True(t, a.Copy(ctx, "y"))
	clock.Advance(DefaultCopiedTTL)

	var got []bool
	for len(got) < 2 {
		select {
		case ev := <-ch:
			assert.Equal(t, EventStatusChanged, ev.Type)
			got = append(got, ev.Payload.Copied)
		case <-time.After(time.Second):
			t.Fatalf("timeout, got %v", got)
		}
	}
	assert.Equal(t, []bool{true, false}, got, "one event per transition")
}

func TestRealTimerResets(t *testing.T) {
	t.Parallel()

	a := New(WithWriter(&recordingWriter{}), WithTTL(20*time.Millisecond))
	defer a.Close()

	require.True(t, a.Copy(context.Background(), "x"))
	assert.True(t, a.Copied())
	assert.Eventually(t, func() bool { return !a.Copied() }, time.Second, 5*time.Millisecond)
}
