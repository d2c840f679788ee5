package ride

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

/*=================Ride Request Repository======================*/

type RequestRepo interface {
	Create(ctx context.Context, req *models.RideRequest) error
	Get(ctx context.Context, id uuid.UUID) (*models.RideRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, change models.StatusChange[types.RequestStatus]) (*models.RideRequest, error)
	ListScheduled(ctx context.Context, riderID string, from time.Time) ([]models.RideRequest, error)
	ListByRider(ctx context.Context, riderID string) ([]models.RideRequest, error)
}

/*=================Ride Repository======================*/

type RideRepo interface {
	Create(ctx context.Context, ride *models.Ride) error
	Get(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	GetByRequest(ctx context.Context, requestID uuid.UUID) (*models.Ride, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, change models.StatusChange[types.RideStatus]) (*models.Ride, error)
}

type EventRepo interface {
	CreateEvent(ctx context.Context, ev models.RideEventRecord) error
}

type FeedbackRepo interface {
	Create(ctx context.Context, fb *models.Feedback) error
}

/*=================Chat Rooms======================*/

type RoomProvider interface {
	GetOrCreateRoom(ctx context.Context, rideID uuid.UUID, riderID, driverID string) (*models.ChatRoom, error)
	CloseRoom(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, bool, error)
	AnnounceClosed(ctx context.Context, room *models.ChatRoom)
}

/*=================Notifications & Events======================*/

type Notifier interface {
	Dispatch(ctx context.Context, msg models.NotificationMessage) (*models.DispatchResult, error)
}

type EventPublisher interface {
	PublishRideStatus(ctx context.Context, msg models.RideStatusMessage) error
}
