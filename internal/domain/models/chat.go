package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

// ChatRoom is the message channel bound 1:1 to a ride.
type ChatRoom struct {
	ID        uuid.UUID `json:"id"`
	RideID    uuid.UUID `json:"ride_id"`
	RiderID   string    `json:"rider_id"`
	DriverID  string    `json:"driver_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ChatRoom) IsParticipant(userID string) bool {
	return userID != "" && (r.RiderID == userID || r.DriverID == userID)
}

// Recipient returns the participant that did not send the message.
func (r *ChatRoom) Recipient(senderID string) string {
	if senderID == r.RiderID {
		return r.DriverID
	}
	return r.RiderID
}

// ChatMessage is immutable except for IsRead and IsFlagged.
// Messages of a room are ordered by (CreatedAt, Seq).
type ChatMessage struct {
	ID         uuid.UUID         `json:"id"`
	Seq        int64             `json:"seq"`
	ChatRoomID uuid.UUID         `json:"chat_room_id"`
	SenderID   string            `json:"sender_id"`
	Text       string            `json:"message"`
	Type       types.MessageType `json:"message_type"`
	IsRead     bool              `json:"is_read"`
	IsFlagged  bool              `json:"is_flagged"`
	CreatedAt  time.Time         `json:"created_at"`
}

// QuickMessage is a canned message template.
type QuickMessage struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Text     string    `json:"message"`
	IsActive bool      `json:"is_active"`
}
