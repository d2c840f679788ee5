package models

import (
	"github.com/google/uuid"
)

// RelayEventType is the kind of a real-time room event
type RelayEventType string

const (
	RelayMessageCreated RelayEventType = "message_created"
	RelayRoomClosed     RelayEventType = "room_closed"
)

// RelayEvent is pushed to connected subscribers of a room.
type RelayEvent struct {
	Type    RelayEventType `json:"type"`
	RoomID  uuid.UUID      `json:"room_id"`
	Message *ChatMessage   `json:"message,omitempty"`
}
