package chat

import (
	"context"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
)

/*====== Storage ======*/

type RoomRepo interface {
	GetOrCreate(ctx context.Context, room *models.ChatRoom) (*models.ChatRoom, bool, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ChatRoom, error)
	GetByRide(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, error)
	Deactivate(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, bool, error)
}

type MessageRepo interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	List(ctx context.Context, roomID uuid.UUID) ([]models.ChatMessage, error)
	MarkRead(ctx context.Context, roomID uuid.UUID, readerID string) (int64, error)
	UnreadCount(ctx context.Context, roomID uuid.UUID, readerID string) (int, error)
	Get(ctx context.Context, messageID uuid.UUID) (*models.ChatMessage, error)
	Flag(ctx context.Context, messageID uuid.UUID) (*models.ChatMessage, bool, error)
}

type QuickMessageRepo interface {
	ListActive(ctx context.Context) ([]models.QuickMessage, error)
}

/*====== Side effects ======*/

// Relay pushes room events to connected clients. Publish must not block.
type Relay interface {
	Publish(ctx context.Context, roomID uuid.UUID, event models.RelayEvent)
}

type Notifier interface {
	Dispatch(ctx context.Context, msg models.NotificationMessage) (*models.DispatchResult, error)
	Preferences(ctx context.Context, userID string) (*models.Preferences, error)
}

type SafetyPublisher interface {
	PublishSafetyEvent(ctx context.Context, msg models.SafetyEventMessage) error
}
