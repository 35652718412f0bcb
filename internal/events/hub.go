// Package events fans out journal change notifications to live subscribers.
package events

import (
	"sync"
	"time"

	"tangled.org/arabica.social/brewjournal/internal/metrics"
)

// Type names a kind of journal change
type Type string

// Journal change types
const (
	BeanCreated       Type = "bean.created"
	BeanUpdated       Type = "bean.updated"
	BeanStatusChanged Type = "bean.status_changed"
	BeanDeleted       Type = "bean.deleted"
	BrewLogged        Type = "brew.logged"
	BrewUpdated       Type = "brew.updated"
	BrewDeleted       Type = "brew.deleted"
	PresetCreated     Type = "preset.created"
	PresetUpdated     Type = "preset.updated"
	PresetDeleted     Type = "preset.deleted"
	CafeLogged        Type = "cafe.logged"
	CafeUpdated       Type = "cafe.updated"
	CafeDeleted       Type = "cafe.deleted"
)

// Event is a single change notification.
type Event struct {
	Type Type      `json:"type"`
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
}

// New builds an event stamped with the current time.
func New(t Type, id string) Event {
	return Event{Type: t, ID: id, At: time.Now().UTC()}
}

// Publisher accepts events. Publish must not block.
type Publisher interface {
	Publish(e Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(Event) {}

// DefaultBuffer is the per-subscriber queue length used when none is given.
const DefaultBuffer = 32

// Hub delivers published events to every subscriber. A subscriber whose
// buffer is full misses the event; publishers never wait.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	closed bool
}

// Ensure Hub implements the interface at compile time.
var _ Publisher = (*Hub)(nil)

// NewHub creates a hub whose subscribers each queue up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Subscription is one listener's view of the hub.
type Subscription struct {
	hub  *Hub
	ch   chan Event
	once sync.Once
}

// Events returns the channel events arrive on. It is closed when the
// subscription or the hub is closed.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close detaches the subscription from the hub. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// Subscribe registers a new listener. Subscribing to a closed hub returns a
// subscription whose channel is already closed.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{hub: h, ch: make(chan Event, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}
	h.subs[sub] = struct{}{}
	metrics.EventSubscribers.Set(float64(len(h.subs)))
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		metrics.EventSubscribers.Set(float64(len(h.subs)))
	}
	sub.once.Do(func() { close(sub.ch) })
}

// Publish queues e for every subscriber with room in its buffer.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues(string(e.Type)).Inc()
	for sub := range h.subs {
		select {
		case sub.ch <- e:
		default:
			metrics.EventsDroppedTotal.Inc()
		}
	}
}

// Subscribers returns the number of attached subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscription. Later publishes are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		sub.once.Do(func() { close(sub.ch) })
	}
	h.subs = make(map[*Subscription]struct{})
	metrics.EventSubscribers.Set(0)
}
