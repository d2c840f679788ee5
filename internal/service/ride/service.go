package ride

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/trm"
)

// DefaultMatchingWindow is how long before departure a scheduled request becomes matchable.
const DefaultMatchingWindow = time.Hour

type Config struct {
	MatchingWindow time.Duration
}

// Service owns the request and ride state machines and keeps them coupled.
type Service struct {
	requests RequestRepo
	rides    RideRepo
	events   EventRepo
	feedback FeedbackRepo
	rooms    RoomProvider

	notifier  Notifier
	publisher EventPublisher
	trm       trm.TxManager

	window time.Duration
	l      logger.Logger
	clock  func() time.Time
}

func NewService(
	requests RequestRepo,
	rides RideRepo,
	events EventRepo,
	feedback FeedbackRepo,
	rooms RoomProvider,
	notifier Notifier,
	publisher EventPublisher,
	trm trm.TxManager,
	cfg Config,
	l logger.Logger,
) *Service {
	if cfg.MatchingWindow <= 0 {
		cfg.MatchingWindow = DefaultMatchingWindow
	}

	return &Service{
		requests:  requests,
		rides:     rides,
		events:    events,
		feedback:  feedback,
		rooms:     rooms,
		notifier:  notifier,
		publisher: publisher,
		trm:       trm,
		window:    cfg.MatchingWindow,
		l:         l,
		clock:     time.Now,
	}
}

func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (*models.RideRequest, error) {
	req, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return req, nil
}

func (s *Service) GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	ride, err := s.rides.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return ride, nil
}

func (s *Service) GetRideByRequest(ctx context.Context, requestID uuid.UUID) (*models.Ride, error) {
	ride, err := s.rides.GetByRequest(ctx, requestID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return ride, nil
}

// recordEvent appends to the lifecycle audit trail inside the current transaction.
func (s *Service) recordEvent(ctx context.Context, requestID uuid.UUID, rideID *uuid.UUID, event types.RideEvent, data map[string]any) error {
	err := s.events.CreateEvent(ctx, models.RideEventRecord{
		RequestID: requestID,
		RideID:    rideID,
		Type:      event,
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", event, err)
	}
	return nil
}

// closeRoom closes the ride's room inside the current transaction. It returns the
// room only when this call closed it, so the caller can announce it after commit.
// A ride without a room is not an error.
func (s *Service) closeRoom(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, error) {
	room, changed, err := s.rooms.CloseRoom(ctx, rideID)
	if err != nil {
		if errors.Is(err, types.ErrChatRoomNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to deactivate chat room: %w", err)
	}
	if !changed {
		return nil, nil
	}
	return room, nil
}

func (s *Service) announceClosed(ctx context.Context, room *models.ChatRoom) {
	if room != nil {
		s.rooms.AnnounceClosed(ctx, room)
	}
}
