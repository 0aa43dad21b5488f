package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, sinks ...Sink) *Broadcaster {
	t.Helper()
	b := New(slog.New(slog.NewTextHandler(io.Discard, nil)), sinks...)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go b.Run(ctx)
	return b
}

func recv(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case b, ok := <-c.Events():
		require.True(t, ok, "client queue closed unexpectedly")
		var ev Event
		require.NoError(t, json.Unmarshal(b, &ev))
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestFanOutPreservesOrderPerObserver(t *testing.T) {
	b := startHub(t)
	c1 := b.Register()
	c2 := b.Register()

	for i := 0; i < 5; i++ {
		b.Broadcast(Event{Type: TypeMessageSent, ChatID: fmt.Sprintf("chat-%d", i)})
	}

	for _, c := range []*Client{c1, c2} {
		for i := 0; i < 5; i++ {
			ev := recv(t, c)
			assert.Equal(t, TypeMessageSent, ev.Type)
			assert.Equal(t, fmt.Sprintf("chat-%d", i), ev.ChatID)
		}
	}
}

func TestSlowObserverDoesNotBlockOthers(t *testing.T) {
	b := startHub(t)
	slow := b.Register() // never drained
	fast := b.Register()

	total := clientBuffer + 8
	for i := 0; i < total; i++ {
		b.Broadcast(Event{Type: TypeMessageReceived, ChatID: fmt.Sprintf("chat-%d", i)})
		ev := recv(t, fast)
		assert.Equal(t, fmt.Sprintf("chat-%d", i), ev.ChatID)
	}

	// The stalled observer keeps its buffered prefix; the overflow was
	// dropped for it alone.
	assert.Len(t, slow.send, clientBuffer)
}

func TestUnregisterClosesQueueAndStopsDelivery(t *testing.T) {
	b := startHub(t)
	c := b.Register()

	b.Broadcast(Event{Type: TypeStatusUpdate})
	recv(t, c)

	b.Unregister(c)

	select {
	case _, ok := <-c.Events():
		assert.False(t, ok, "queue must be closed after unregister")
	case <-time.After(2 * time.Second):
		t.Fatal("queue not closed after unregister")
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestSinksMirrorTheStream(t *testing.T) {
	sink := &recordingSink{}
	b := startHub(t, sink)
	c := b.Register()

	b.Broadcast(Event{Type: TypeConfigUpdated})
	recv(t, c)

	require.Eventually(t, func() bool { return sink.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSinkFailureDoesNotAffectObservers(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	b := startHub(t, sink)
	c := b.Register()

	b.Broadcast(Event{Type: TypeHumanTakeover, ChatID: "chat"})
	ev := recv(t, c)

	assert.Equal(t, TypeHumanTakeover, ev.Type)
	assert.Equal(t, "chat", ev.ChatID)
}
