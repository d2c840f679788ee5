package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/metrics"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

const defaultLookupTimeout = 3 * time.Second

type Config struct {
	LookupTimeout time.Duration
}

type Service struct {
	rooms    RoomRepo
	messages MessageRepo
	quick    QuickMessageRepo

	relay    Relay
	notifier Notifier
	safety   SafetyPublisher

	lookupTimeout time.Duration
	l             logger.Logger
	clock         func() time.Time
}

func NewService(
	rooms RoomRepo,
	messages MessageRepo,
	quick QuickMessageRepo,
	relay Relay,
	notifier Notifier,
	safety SafetyPublisher,
	cfg Config,
	l logger.Logger,
) *Service {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = defaultLookupTimeout
	}

	return &Service{
		rooms:         rooms,
		messages:      messages,
		quick:         quick,
		relay:         relay,
		notifier:      notifier,
		safety:        safety,
		lookupTimeout: cfg.LookupTimeout,
		l:             l,
		clock:         time.Now,
	}
}

// GetOrCreateRoom returns the single room of a ride, creating it on first call.
// Concurrent callers for the same ride observe the same room.
func (s *Service) GetOrCreateRoom(ctx context.Context, rideID uuid.UUID, riderID, driverID string) (*models.ChatRoom, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "get_or_create_chat_room"), rideID.String())

	v := validator.New()
	v.Check(rideID != uuid.Nil, "ride_id", "must be provided")
	v.Check(validator.NotBlank(riderID), "rider_id", "must be provided")
	v.Check(validator.NotBlank(driverID), "driver_id", "must be provided")
	if !v.Valid() {
		return nil, types.NewValidationError(v.Errors)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	room, created, err := s.rooms.GetOrCreate(lookupCtx, &models.ChatRoom{
		ID:       uuid.New(),
		RideID:   rideID,
		RiderID:  riderID,
		DriverID: driverID,
	})
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to get or create chat room: %w", err))
	}

	if created {
		s.l.Info(wrap.WithRoomID(ctx, room.ID.String()), "chat room created")
	}
	return room, nil
}

// Deactivate closes the ride's room and tells connected clients. Repeated calls are no-ops.
func (s *Service) Deactivate(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, error) {
	room, changed, err := s.CloseRoom(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.AnnounceClosed(ctx, room)
	}
	return room, nil
}

// CloseRoom marks the ride's room inactive without telling clients, so it can run
// inside the caller's transaction. changed is false if the room was already closed.
func (s *Service) CloseRoom(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, bool, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "deactivate_chat_room"), rideID.String())

	room, changed, err := s.rooms.Deactivate(ctx, rideID)
	if err != nil {
		return nil, false, wrap.Error(ctx, fmt.Errorf("failed to deactivate chat room: %w", err))
	}
	return room, changed, nil
}

// AnnounceClosed pushes the room closed event to connected clients.
func (s *Service) AnnounceClosed(ctx context.Context, room *models.ChatRoom) {
	ctx = wrap.WithRoomID(wrap.WithRideID(ctx, room.RideID.String()), room.ID.String())

	s.relay.Publish(ctx, room.ID, models.RelayEvent{Type: models.RelayRoomClosed, RoomID: room.ID})
	s.l.Info(ctx, "chat room deactivated")
}

func (s *Service) Room(ctx context.Context, roomID uuid.UUID) (*models.ChatRoom, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return room, nil
}

func (s *Service) RoomByRide(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, error) {
	room, err := s.rooms.GetByRide(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return room, nil
}

// ParticipantRoom returns the room only if userID takes part in it.
func (s *Service) ParticipantRoom(ctx context.Context, roomID uuid.UUID, userID string) (*models.ChatRoom, error) {
	room, err := s.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsParticipant(userID) {
		return nil, wrap.Error(ctx, types.ErrNotParticipant)
	}
	return room, nil
}

// Send stores a message and fans it out to the relay and the other participant.
func (s *Service) Send(ctx context.Context, roomID uuid.UUID, senderID, text string, msgType types.MessageType) (*models.ChatMessage, error) {
	ctx = wrap.WithRoomID(wrap.WithUserID(wrap.WithAction(ctx, "send_chat_message"), senderID), roomID.String())

	if msgType == "" {
		msgType = types.MessageText
	}

	v := validator.New()
	v.Check(strings.TrimSpace(text) != "", "message", "must not be empty")
	v.Check(msgType.Valid(), "message_type", "unknown message type")
	if !v.Valid() {
		return nil, types.NewValidationError(v.Errors)
	}

	room, err := s.ParticipantRoom(ctx, roomID, senderID)
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, wrap.Error(ctx, types.ErrChatRoomInactive)
	}

	msg := &models.ChatMessage{
		ID:         uuid.New(),
		ChatRoomID: room.ID,
		SenderID:   senderID,
		Text:       text,
		Type:       msgType,
	}

	// the room may have been closed since the read above, Append re-checks atomically
	if err := s.messages.Append(ctx, msg); err != nil {
		if errors.Is(err, types.ErrChatRoomInactive) || errors.Is(err, types.ErrChatRoomNotFound) {
			return nil, wrap.Error(ctx, err)
		}
		return nil, wrap.Error(ctx, fmt.Errorf("failed to store chat message: %w", err))
	}
	metrics.ChatMessagesTotal.WithLabelValues(msgType.String()).Inc()

	s.relay.Publish(ctx, room.ID, models.RelayEvent{Type: models.RelayMessageCreated, RoomID: room.ID, Message: msg})
	s.notifyRecipient(ctx, room, msg)

	if msgType == types.MessageSafetyAlert {
		s.publishSafety(ctx, types.SafetyAlertRaised, room, msg)
	}

	s.l.Debug(ctx, "chat message sent", "message_id", msg.ID.String(), "message_type", msgType.String())
	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, roomID uuid.UUID) ([]models.ChatMessage, error) {
	msgs, err := s.messages.List(ctx, roomID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list chat messages: %w", err))
	}
	return msgs, nil
}

// MarkRead marks every message not sent by readerID as read and returns how many changed.
func (s *Service) MarkRead(ctx context.Context, roomID uuid.UUID, readerID string) (int64, error) {
	ctx = wrap.WithRoomID(wrap.WithUserID(wrap.WithAction(ctx, "mark_chat_read"), readerID), roomID.String())

	if !validator.NotBlank(readerID) {
		return 0, types.NewValidationError(map[string]string{"reader_id": "must be provided"})
	}

	n, err := s.messages.MarkRead(ctx, roomID, readerID)
	if err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("failed to mark messages read: %w", err))
	}
	return n, nil
}

func (s *Service) UnreadCount(ctx context.Context, roomID uuid.UUID, readerID string) (int, error) {
	n, err := s.messages.UnreadCount(ctx, roomID, readerID)
	if err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("failed to count unread messages: %w", err))
	}
	return n, nil
}

// Flag marks a message for safety review on behalf of a room participant.
// Only the first flag publishes an event.
func (s *Service) Flag(ctx context.Context, messageID uuid.UUID, userID string) (*models.ChatMessage, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "flag_chat_message"), userID)

	msg, err := s.messages.Get(ctx, messageID)
	if err != nil {
		if errors.Is(err, types.ErrMessageNotFound) {
			return nil, wrap.Error(ctx, err)
		}
		return nil, wrap.Error(ctx, fmt.Errorf("failed to get message: %w", err))
	}

	ctx = wrap.WithRoomID(ctx, msg.ChatRoomID.String())
	room, err := s.ParticipantRoom(ctx, msg.ChatRoomID, userID)
	if err != nil {
		return nil, err
	}

	msg, changed, err := s.messages.Flag(ctx, messageID)
	if err != nil {
		if errors.Is(err, types.ErrMessageNotFound) {
			return nil, wrap.Error(ctx, err)
		}
		return nil, wrap.Error(ctx, fmt.Errorf("failed to flag message: %w", err))
	}
	if !changed {
		return msg, nil
	}
	s.publishSafety(ctx, types.SafetyMessageFlagged, room, msg)

	s.l.Info(ctx, "chat message flagged", "message_id", msg.ID.String())
	return msg, nil
}

func (s *Service) QuickMessages(ctx context.Context) ([]models.QuickMessage, error) {
	list, err := s.quick.ListActive(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list quick messages: %w", err))
	}
	return list, nil
}
