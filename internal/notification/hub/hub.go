// Package hub fans persisted notifications out to connected socket clients.
package hub

import (
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	DefaultSubscriberBuffer = 16
)

// Event is the wire form pushed over a notification socket.
type Event struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Hub struct {
	mu               sync.RWMutex
	streams          map[string]*stream
	subscriberBuffer int
}

type stream struct {
	mu     sync.Mutex
	subs   map[uint64]chan Event
	nextID uint64
}

type Subscription struct {
	hub   *Hub
	email string
	id    uint64
	ch    chan Event
	done  chan struct{}
	once  sync.Once
}

func NewHub() *Hub {
	return &Hub{
		streams:          make(map[string]*stream),
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

// Publish delivers the event to every live subscriber of the recipient.
// Slow subscribers are skipped rather than blocked on.
func (h *Hub) Publish(recipientEmail string, event Event) {
	if h == nil {
		return
	}
	email := normalize(recipientEmail)
	if email == "" {
		return
	}

	h.mu.RLock()
	st := h.streams[email]
	h.mu.RUnlock()
	if st == nil {
		return
	}

	st.mu.Lock()
	subs := make([]chan Event, 0, len(st.subs))
	for _, ch := range st.subs {
		subs = append(subs, ch)
	}
	st.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) Subscribe(recipientEmail string) (*Subscription, error) {
	if h == nil {
		return nil, errors.New("hub_unavailable")
	}
	email := normalize(recipientEmail)
	if email == "" {
		return nil, errors.New("recipient_required")
	}

	// Registration stays under h.mu so a concurrent Close cannot prune the
	// stream between lookup and insert.
	h.mu.Lock()
	st := h.streams[email]
	if st == nil {
		st = &stream{subs: make(map[uint64]chan Event)}
		h.streams[email] = st
	}
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	ch := make(chan Event, h.subscriberBuffer)
	st.subs[id] = ch
	st.mu.Unlock()
	h.mu.Unlock()

	return &Subscription{
		hub:   h,
		email: email,
		id:    id,
		ch:    ch,
		done:  make(chan struct{}),
	}, nil
}

// Events returns the channel delivering pushed notifications. It is never
// closed: a Publish racing a Close may still hold a reference to it, and
// sending on a closed channel would panic the publisher. Readers watch
// Done for shutdown instead.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Done is closed when the subscription is torn down.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close unsubscribes and drops the recipient's stream once its last
// subscriber is gone.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		if st := s.hub.streams[s.email]; st != nil {
			st.mu.Lock()
			delete(st.subs, s.id)
			empty := len(st.subs) == 0
			st.mu.Unlock()
			if empty {
				delete(s.hub.streams, s.email)
			}
		}
		s.hub.mu.Unlock()
		close(s.done)
	})
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
