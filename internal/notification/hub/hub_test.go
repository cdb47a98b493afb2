package hub

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscriber(t *testing.T) {
	h := NewHub()
	sub, err := h.Subscribe("Worker@Example.com")
	require.NoError(t, err)
	defer sub.Close()

	h.Publish("worker@example.com", Event{ID: "1", Kind: "member.invited", Title: "hi"})

	select {
	case ev := <-sub.Events():
		require.Equal(t, "1", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishToOtherRecipientIsInvisible(t *testing.T) {
	h := NewHub()
	sub, err := h.Subscribe("a@example.com")
	require.NoError(t, err)
	defer sub.Close()

	h.Publish("b@example.com", Event{ID: "1"})

	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	h := NewHub()
	sub, err := h.Subscribe("a@example.com")
	require.NoError(t, err)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < DefaultSubscriberBuffer*3; i++ {
			h.Publish("a@example.com", Event{ID: "x"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	h := NewHub()
	sub, err := h.Subscribe("a@example.com")
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	// A publish after close must not panic on the dropped stream.
	h.Publish("a@example.com", Event{ID: "1"})
}

func TestCloseSignalsDoneWithoutClosingEvents(t *testing.T) {
	h := NewHub()
	sub, err := h.Subscribe("a@example.com")
	require.NoError(t, err)

	sub.Close()

	select {
	case <-sub.Done():
	default:
		t.Fatal("done not signalled after close")
	}

	// The event channel stays open; a receive on it would block, not
	// report a close.
	select {
	case _, ok := <-sub.Events():
		require.True(t, ok, "event channel must never be closed")
	default:
	}
}

func TestPublishRacingCloseDoesNotPanic(t *testing.T) {
	h := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		sub, err := h.Subscribe("a@example.com")
		require.NoError(t, err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Publish("a@example.com", Event{ID: "x"})
		}()
		sub.Close()
	}
	wg.Wait()
}

func TestCloseDropsEmptyStream(t *testing.T) {
	h := NewHub()
	first, err := h.Subscribe("a@example.com")
	require.NoError(t, err)
	second, err := h.Subscribe("a@example.com")
	require.NoError(t, err)

	first.Close()
	h.mu.RLock()
	_, live := h.streams["a@example.com"]
	h.mu.RUnlock()
	require.True(t, live, "stream must survive while a subscriber remains")

	second.Close()
	h.mu.RLock()
	remaining := len(h.streams)
	h.mu.RUnlock()
	require.Zero(t, remaining, "empty stream must be pruned")
}
