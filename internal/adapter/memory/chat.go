package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

type ChatRoomRepo struct{ s *Store }

func NewChatRoomRepo(s *Store) *ChatRoomRepo { return &ChatRoomRepo{s: s} }

// GetOrCreate returns the existing room of room.RideID, or stores room.
func (r *ChatRoomRepo) GetOrCreate(ctx context.Context, room *models.ChatRoom) (*models.ChatRoom, bool, error) {
	defer r.s.lock(ctx)()

	if id, ok := r.s.roomsBy[room.RideID]; ok {
		existing := r.s.rooms[id]
		return &existing, false, nil
	}
	if _, ok := r.s.rides[room.RideID]; !ok {
		return nil, false, types.ErrRideNotFound
	}

	created := *room
	created.IsActive = true
	now := r.s.now()
	created.CreatedAt, created.UpdatedAt = now, now

	r.s.rooms[created.ID] = created
	r.s.roomsBy[created.RideID] = created.ID
	return &created, true, nil
}

func (r *ChatRoomRepo) Get(ctx context.Context, id uuid.UUID) (*models.ChatRoom, error) {
	defer r.s.rlock(ctx)()

	room, ok := r.s.rooms[id]
	if !ok {
		return nil, types.ErrChatRoomNotFound
	}
	return &room, nil
}

func (r *ChatRoomRepo) GetByRide(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, error) {
	defer r.s.rlock(ctx)()

	id, ok := r.s.roomsBy[rideID]
	if !ok {
		return nil, types.ErrChatRoomNotFound
	}
	room := r.s.rooms[id]
	return &room, nil
}

func (r *ChatRoomRepo) Deactivate(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, bool, error) {
	defer r.s.lock(ctx)()

	id, ok := r.s.roomsBy[rideID]
	if !ok {
		return nil, false, types.ErrChatRoomNotFound
	}
	room := r.s.rooms[id]
	if !room.IsActive {
		return &room, false, nil
	}

	room.IsActive = false
	room.UpdatedAt = r.s.now()
	r.s.rooms[id] = room
	return &room, true, nil
}

type ChatMessageRepo struct{ s *Store }

func NewChatMessageRepo(s *Store) *ChatMessageRepo { return &ChatMessageRepo{s: s} }

// Append stores msg if its room is active, assigning Seq and a non-decreasing CreatedAt.
func (r *ChatMessageRepo) Append(ctx context.Context, msg *models.ChatMessage) error {
	defer r.s.lock(ctx)()

	room, ok := r.s.rooms[msg.ChatRoomID]
	if !ok {
		return types.ErrChatRoomNotFound
	}
	if !room.IsActive {
		return types.ErrChatRoomInactive
	}

	now := r.s.now()
	if now.Before(r.s.lastAt) {
		now = r.s.lastAt
	}
	r.s.lastAt = now
	r.s.seq++

	msg.Seq = r.s.seq
	msg.CreatedAt = now
	msg.IsRead, msg.IsFlagged = false, false

	r.s.messages[msg.ChatRoomID] = append(r.s.messages[msg.ChatRoomID], *msg)
	r.s.msgRoom[msg.ID] = msg.ChatRoomID
	return nil
}

func (r *ChatMessageRepo) List(ctx context.Context, roomID uuid.UUID) ([]models.ChatMessage, error) {
	defer r.s.rlock(ctx)()

	// appended in (created_at, seq) order already
	return slices.Clone(r.s.messages[roomID]), nil
}

func (r *ChatMessageRepo) MarkRead(ctx context.Context, roomID uuid.UUID, readerID string) (int64, error) {
	defer r.s.lock(ctx)()

	var n int64
	msgs := r.s.messages[roomID]
	for i := range msgs {
		if msgs[i].SenderID != readerID && !msgs[i].IsRead {
			msgs[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *ChatMessageRepo) UnreadCount(ctx context.Context, roomID uuid.UUID, readerID string) (int, error) {
	defer r.s.rlock(ctx)()

	n := 0
	for _, m := range r.s.messages[roomID] {
		if m.SenderID != readerID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *ChatMessageRepo) Get(ctx context.Context, messageID uuid.UUID) (*models.ChatMessage, error) {
	defer r.s.rlock(ctx)()

	roomID, ok := r.s.msgRoom[messageID]
	if !ok {
		return nil, types.ErrMessageNotFound
	}
	for _, m := range r.s.messages[roomID] {
		if m.ID == messageID {
			return &m, nil
		}
	}
	return nil, types.ErrMessageNotFound
}

func (r *ChatMessageRepo) Flag(ctx context.Context, messageID uuid.UUID) (*models.ChatMessage, bool, error) {
	defer r.s.lock(ctx)()

	roomID, ok := r.s.msgRoom[messageID]
	if !ok {
		return nil, false, types.ErrMessageNotFound
	}

	msgs := r.s.messages[roomID]
	for i := range msgs {
		if msgs[i].ID != messageID {
			continue
		}
		changed := !msgs[i].IsFlagged
		msgs[i].IsFlagged = true
		m := msgs[i]
		return &m, changed, nil
	}
	return nil, false, types.ErrMessageNotFound
}

type QuickMessageRepo struct{ s *Store }

func NewQuickMessageRepo(s *Store) *QuickMessageRepo { return &QuickMessageRepo{s: s} }

func (r *QuickMessageRepo) ListActive(ctx context.Context) ([]models.QuickMessage, error) {
	defer r.s.rlock(ctx)()

	out := make([]models.QuickMessage, 0, len(r.s.quick))
	for _, q := range r.s.quick {
		if q.IsActive {
			out = append(out, q)
		}
	}
	slices.SortStableFunc(out, func(a, b models.QuickMessage) int {
		switch {
		case a.Category < b.Category:
			return -1
		case a.Category > b.Category:
			return 1
		}
		return 0
	})
	return out, nil
}
