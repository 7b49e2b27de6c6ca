// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import "sync"

// Event is a change notification. Today the only producer is a committed
// cast, but subscribers treat it as an opaque "something changed" signal and
// re-read the ledger; correctness never depends on delivery.
type Event struct {
	Type       string `json:"type"`
	ElectionID string `json:"election_id"`
}

const EventBallotCast = "ballot_cast"

// subscriber channels are buffered; a full buffer drops the event rather
// than blocking the publisher.
const subscriberBuffer = 8

// Hub fans change events out to subscribers. Safe for concurrent use.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe registers a new listener and returns its channel plus a cancel
// handle. Cancel is idempotent and closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking. Slow
// subscribers miss events; they catch up on their next ledger read.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports the number of active subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
