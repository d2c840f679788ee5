// Package memory is an in-process storage backend with the same conditional
// update and insert-or-fetch semantics as the postgres repositories.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
)

type subKey struct {
	userID   string
	endpoint string
}

type feedbackKey struct {
	rideID   uuid.UUID
	authorID string
}

// Store holds all entities behind a single mutex.
type Store struct {
	mu sync.RWMutex

	requests map[uuid.UUID]models.RideRequest
	rides    map[uuid.UUID]models.Ride
	ridesBy  map[uuid.UUID]uuid.UUID // request id -> ride id
	events   []models.RideEventRecord
	feedback map[feedbackKey]models.Feedback

	rooms    map[uuid.UUID]models.ChatRoom
	roomsBy  map[uuid.UUID]uuid.UUID // ride id -> room id
	messages map[uuid.UUID][]models.ChatMessage
	msgRoom  map[uuid.UUID]uuid.UUID // message id -> room id
	seq      int64
	lastAt   time.Time
	quick    []models.QuickMessage

	subs          map[subKey]models.PushSubscription
	notifications []models.Notification
	prefs         map[string]models.Preferences

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		requests: make(map[uuid.UUID]models.RideRequest),
		rides:    make(map[uuid.UUID]models.Ride),
		ridesBy:  make(map[uuid.UUID]uuid.UUID),
		feedback: make(map[feedbackKey]models.Feedback),
		rooms:    make(map[uuid.UUID]models.ChatRoom),
		roomsBy:  make(map[uuid.UUID]uuid.UUID),
		messages: make(map[uuid.UUID][]models.ChatMessage),
		msgRoom:  make(map[uuid.UUID]uuid.UUID),
		subs:     make(map[subKey]models.PushSubscription),
		prefs:    make(map[string]models.Preferences),
		quick:    defaultQuickMessages(),
		now:      time.Now,
	}
}

// Events returns a copy of the lifecycle audit trail.
func (s *Store) Events() []models.RideEventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RideEventRecord(nil), s.events...)
}

// Notifications returns a copy of the notification audit trail.
func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Notification(nil), s.notifications...)
}

type txKey struct{}

// lock takes the write lock unless ctx belongs to a transaction of s,
// which already holds it.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) inTx(ctx context.Context) bool {
	tx, _ := ctx.Value(txKey{}).(*Store)
	return tx == s
}

// TxManager serializes transactions on the store lock and restores
// the previous state when fn fails.
type TxManager struct {
	s *Store
}

func NewTxManager(s *Store) *TxManager {
	return &TxManager{s: s}
}

// Do runs fn holding the store lock. Nested calls join the outer transaction.
// fn must not hand its ctx to other goroutines.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if m.s.inTx(ctx) {
		return fn(ctx)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	snap := m.s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.s.restore(snap)
			panic(p)
		}
		if err != nil {
			m.s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, m.s))
}

// state is a copy of every mutable part of the store.
type state struct {
	requests map[uuid.UUID]models.RideRequest
	rides    map[uuid.UUID]models.Ride
	ridesBy  map[uuid.UUID]uuid.UUID
	events   []models.RideEventRecord
	feedback map[feedbackKey]models.Feedback

	rooms    map[uuid.UUID]models.ChatRoom
	roomsBy  map[uuid.UUID]uuid.UUID
	messages map[uuid.UUID][]models.ChatMessage
	msgRoom  map[uuid.UUID]uuid.UUID
	seq      int64
	lastAt   time.Time
	quick    []models.QuickMessage

	subs          map[subKey]models.PushSubscription
	notifications []models.Notification
	prefs         map[string]models.Preferences
}

// snapshot must be called with mu held.
func (s *Store) snapshot() state {
	messages := make(map[uuid.UUID][]models.ChatMessage, len(s.messages))
	for id, list := range s.messages {
		messages[id] = slices.Clone(list)
	}

	return state{
		requests:      maps.Clone(s.requests),
		rides:         maps.Clone(s.rides),
		ridesBy:       maps.Clone(s.ridesBy),
		events:        slices.Clone(s.events),
		feedback:      maps.Clone(s.feedback),
		rooms:         maps.Clone(s.rooms),
		roomsBy:       maps.Clone(s.roomsBy),
		messages:      messages,
		msgRoom:       maps.Clone(s.msgRoom),
		seq:           s.seq,
		lastAt:        s.lastAt,
		quick:         slices.Clone(s.quick),
		subs:          maps.Clone(s.subs),
		notifications: slices.Clone(s.notifications),
		prefs:         maps.Clone(s.prefs),
	}
}

// restore must be called with mu held.
func (s *Store) restore(st state) {
	s.requests, s.rides, s.ridesBy = st.requests, st.rides, st.ridesBy
	s.events, s.feedback = st.events, st.feedback
	s.rooms, s.roomsBy = st.rooms, st.roomsBy
	s.messages, s.msgRoom = st.messages, st.msgRoom
	s.seq, s.lastAt, s.quick = st.seq, st.lastAt, st.quick
	s.subs, s.notifications, s.prefs = st.subs, st.notifications, st.prefs
}

func defaultQuickMessages() []models.QuickMessage {
	entries := []struct{ category, text string }{
		{"arrival", "I'm here"},
		{"arrival", "I'll be there in 2 minutes"},
		{"general", "Thank you!"},
		{"general", "Running a bit late"},
		{"location", "I'm at the pickup point"},
		{"location", "Please share your exact location"},
		{"safety", "I feel unsafe"},
		{"safety", "Please follow the route"},
	}

	out := make([]models.QuickMessage, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.QuickMessage{ID: uuid.New(), Category: e.category, Text: e.text, IsActive: true})
	}
	return out
}
