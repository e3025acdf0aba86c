package events

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// DefaultHistorySize is the number of recent events a bus retains
const DefaultHistorySize = 100

// Bus fans events out to subscribers synchronously, on the publisher's goroutine.
// Handlers must not block; slow consumers should buffer on their side.
type Bus struct {
	logger hclog.Logger

	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	recent        []Event
	historySize   int

	published atomic.Int64
}

// NewBus creates a new event bus
func NewBus(logger hclog.Logger) *Bus {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Bus{
		logger:        logger.Named("events"),
		subscriptions: make(map[string]*Subscription),
		recent:        make([]Event, 0, DefaultHistorySize),
		historySize:   DefaultHistorySize,
	}
}

// Publish stamps and delivers an event to every matching subscriber
func (b *Bus) Publish(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Priority == 0 {
		event.Priority = PriorityNormal
	}

	b.mu.Lock()
	if len(b.recent) == b.historySize {
		b.recent = append(b.recent[:0], b.recent[1:]...)
	}
	b.recent = append(b.recent, event)

	handlers := make([]*Subscription, 0, len(b.subscriptions))
	for _, sub := range b.subscriptions {
		if sub.Filter.Matches(event) {
			handlers = append(handlers, sub)
		}
	}
	b.mu.Unlock()

	b.published.Add(1)
	for _, sub := range handlers {
		b.dispatch(sub, event)
	}
}

func (b *Bus) dispatch(sub *Subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "subscription", sub.ID, "event_type", event.Type, "panic", fmt.Sprint(r))
		}
	}()
	sub.Handler(event)
}

// Subscribe registers a handler and returns a function that removes it
func (b *Bus) Subscribe(filter EventFilter, handler EventHandler) (*Subscription, func()) {
	sub := &Subscription{
		ID:      uuid.NewString(),
		Filter:  filter,
		Handler: handler,
		Created: time.Now(),
	}

	b.mu.Lock()
	b.subscriptions[sub.ID] = sub
	b.mu.Unlock()

	b.logger.Debug("subscription added", "id", sub.ID)
	return sub, func() { b.Unsubscribe(sub.ID) }
}

// Unsubscribe removes a subscription
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	delete(b.subscriptions, id)
	b.mu.Unlock()
}

// Recent returns the retained events matching the filter, oldest first
func (b *Bus) Recent(filter EventFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Event, 0, len(b.recent))
	for _, e := range b.recent {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Published returns the number of events published so far
func (b *Bus) Published() int64 {
	return b.published.Load()
}

// SubscriberCount returns the number of active subscriptions
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
