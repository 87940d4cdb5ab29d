// Package broadcast pushes result snapshots to connected observers.
// Delivery is fire-and-forget: an observer that is disconnected or too slow
// simply misses snapshots and catches up on the next one.
package broadcast

import (
	"log/slog"
	"sync"

	"matadan/internal/election/models"
	"matadan/internal/platform/metrics"
)

// Snapshot is the one event type on the live channel: the current standings.
type Snapshot struct {
	Participants []models.Participant `json:"participants"`
	TotalVotes   int                  `json:"totalVotes"`
}

// subscriberBuffer bounds how far a subscriber may lag before snapshots are
// dropped for it.
const subscriberBuffer = 8

// Hub fans snapshots out to in-process subscribers.
type Hub struct {
	mu      sync.Mutex
	subs    map[chan Snapshot]struct{}
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHub(logger *slog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		subs:    make(map[chan Snapshot]struct{}),
		logger:  logger,
		metrics: m,
	}
}

// Subscribe registers an observer. The returned cancel function must be
// called when the observer disconnects.
func (h *Hub) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// SubscriberCount reports the number of connected observers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish delivers a snapshot to every subscriber without blocking. A
// subscriber whose buffer is full misses this snapshot.
func (h *Hub) Publish(snapshot Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- snapshot:
		default:
			h.metrics.RecordSubscriberDropped()
			h.logger.Warn("live subscriber lagging, snapshot dropped")
		}
	}
	h.metrics.RecordBroadcast()
}
