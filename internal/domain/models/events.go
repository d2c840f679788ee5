package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

// RideStatusMessage is published on every lifecycle transition.
type RideStatusMessage struct {
	RequestID     uuid.UUID           `json:"request_id"`
	RideID        *uuid.UUID          `json:"ride_id,omitempty"`
	RequestStatus types.RequestStatus `json:"request_status"`
	RideStatus    types.RideStatus    `json:"ride_status,omitempty"`
	Event         types.RideEvent     `json:"event"`
	ActorID       string              `json:"actor_id,omitempty"`
	Timestamp     time.Time           `json:"timestamp"`
	CorrelationID string              `json:"correlation_id,omitempty"`
}

// SafetyEventMessage informs the safety-monitoring layer.
type SafetyEventMessage struct {
	Event      types.SafetyEvent `json:"event"`
	ChatRoomID uuid.UUID         `json:"chat_room_id"`
	RideID     uuid.UUID         `json:"ride_id"`
	MessageID  uuid.UUID         `json:"message_id"`
	SenderID   string            `json:"sender_id"`
	Text       string            `json:"text"`
	Timestamp  time.Time         `json:"timestamp"`
}

// DriverDecisionMessage is an external matching decision fed into acceptance.
type DriverDecisionMessage struct {
	RequestID   uuid.UUID `json:"request_id"`
	DriverID    string    `json:"driver_id"`
	AgreedPrice float64   `json:"agreed_price"`
}

// RideProgressMessage is an external trigger to advance a ride.
type RideProgressMessage struct {
	RideID uuid.UUID        `json:"ride_id"`
	Status types.RideStatus `json:"status"`
}
