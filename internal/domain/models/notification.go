package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

type PushKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// PushSubscription is unique by (UserID, Endpoint).
type PushSubscription struct {
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	Keys      PushKeys  `json:"keys"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotificationMessage is what the caller asks to deliver to a user.
type NotificationMessage struct {
	UserID  string                 `json:"user_id"`
	Title   string                 `json:"title"`
	Body    string                 `json:"body"`
	Type    types.NotificationType `json:"type"`
	Payload map[string]any         `json:"payload,omitempty"`
}

// Notification is an append-only audit record of a dispatch.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	UserID    string                 `json:"user_id"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Type      types.NotificationType `json:"type"`
	Payload   json.RawMessage        `json:"payload,omitempty"`
	Delivered bool                   `json:"delivered"`
	CreatedAt time.Time              `json:"created_at"`
}

type DeliveryResult struct {
	Endpoint string                `json:"endpoint"`
	Outcome  types.DeliveryOutcome `json:"outcome"`
	Error    string                `json:"error,omitempty"`
}

type DispatchResult struct {
	NotificationID uuid.UUID        `json:"notification_id"`
	Results        []DeliveryResult `json:"results"`
	SuccessCount   int              `json:"success_count"`
	Delivered      bool             `json:"delivered"`
}

// Preferences are per user notification settings.
type Preferences struct {
	UserID    string    `json:"user_id"`
	ChatMuted bool      `json:"chat_muted"`
	UpdatedAt time.Time `json:"updated_at"`
}
