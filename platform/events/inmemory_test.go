package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"crm_backend/platform/logger"
)

type testEvent struct{ name string }

func (e testEvent) EventName() string     { return e.name }
func (e testEvent) OccurredAt() time.Time { return time.Now() }

type testHandler struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
}

func (h *testHandler) Handle(context.Context, Event) error {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	if h.done != nil {
		close(h.done)
	}
	return h.err
}

func (h *testHandler) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func TestPublishSyncReturnsHandlerError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	wantErr := errors.New("handler failed")
	bus.Subscribe("thing.happened", &testHandler{err: wantErr})
	bus.Subscribe("thing.happened", &testHandler{})

	err := bus.PublishSync(context.Background(), testEvent{name: "thing.happened"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error to surface, got %v", err)
	}
}

func TestPublishSyncRunsAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	first := &testHandler{}
	second := &testHandler{}
	bus.Subscribe("thing.happened", first)
	bus.Subscribe("thing.happened", second)

	if err := bus.PublishSync(context.Background(), testEvent{name: "thing.happened"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.callCount() != 1 || second.callCount() != 1 {
		t.Fatalf("expected both handlers to run once, got %d and %d", first.callCount(), second.callCount())
	}
}

func TestPublishIsFireAndForget(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	handler := &testHandler{err: errors.New("ignored"), done: make(chan struct{})}
	bus.Subscribe("thing.happened", handler)

	bus.Publish(context.Background(), testEvent{name: "thing.happened"})

	select {
	case <-handler.done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected async handler to run")
	}
}

func TestPublishIgnoresUnsubscribedEvents(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	if err := bus.PublishSync(context.Background(), testEvent{name: "nobody.cares"}); err != nil {
		t.Fatalf("expected no error for an event without handlers, got %v", err)
	}
}
