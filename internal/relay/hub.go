// Package relay pushes chat room events to connected subscribers in-process.
package relay

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/metrics"
)

const DefaultBuffer = 16

// Hub fans room events out to subscribers. There is no history: a subscriber
// only sees events published after it subscribed.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*Subscription]struct{}
	buffer int
	closed bool

	l logger.Logger
}

func NewHub(buffer int, l logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		rooms:  make(map[uuid.UUID]map[*Subscription]struct{}),
		buffer: buffer,
		l:      l,
	}
}

// Subscription receives events of one room until Close.
type Subscription struct {
	roomID uuid.UUID
	ch     chan models.RelayEvent
	hub    *Hub
	once   sync.Once
}

// Events is closed once the subscription is closed.
func (s *Subscription) Events() <-chan models.RelayEvent {
	return s.ch
}

func (s *Subscription) RoomID() uuid.UUID {
	return s.roomID
}

// Close stops delivery immediately. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// Subscribe registers a new subscriber of roomID.
func (h *Hub) Subscribe(roomID uuid.UUID) *Subscription {
	sub := &Subscription{
		roomID: roomID,
		ch:     make(chan models.RelayEvent, h.buffer),
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}

	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.rooms[roomID] = subs
	}
	subs[sub] = struct{}{}
	metrics.RelaySubscribersGauge.Inc()

	return sub
}

// remove deletes sub under the write lock, so no Publish can be sending to it
// when its channel is closed.
func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.detach(sub)
}

func (h *Hub) detach(sub *Subscription) {
	sub.once.Do(func() {
		if subs, ok := h.rooms[sub.roomID]; ok {
			if _, ok := subs[sub]; ok {
				delete(subs, sub)
				metrics.RelaySubscribersGauge.Dec()
			}
			if len(subs) == 0 {
				delete(h.rooms, sub.roomID)
			}
		}
		close(sub.ch)
	})
}

// Publish delivers event to every subscriber of roomID without blocking.
// A subscriber with a full buffer misses the event.
func (h *Hub) Publish(ctx context.Context, roomID uuid.UUID, event models.RelayEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for sub := range h.rooms[roomID] {
		select {
		case sub.ch <- event:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		metrics.RelayDroppedTotal.Add(float64(dropped))
		h.l.Warn(wrap.WithRoomID(ctx, roomID.String()), "relay event dropped for slow subscribers",
			"event_type", string(event.Type),
			"dropped", dropped,
		)
	}
}

// Subscribers returns the number of live subscriptions of roomID.
func (h *Hub) Subscribers(roomID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Close ends every subscription. Later Subscribe calls return closed subscriptions.
func (h *Hub) Close() {
	ctx := wrap.WithAction(context.Background(), "relay_hub_close")

	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	count := 0
	for _, subs := range h.rooms {
		for sub := range subs {
			h.detach(sub)
			count++
		}
	}

	h.l.Info(ctx, "relay hub closed", "subscriptions", count)
}
