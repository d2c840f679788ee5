package chat

import (
	"context"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

// notifyRecipient pushes msg to the other participant. Failures are logged only.
func (s *Service) notifyRecipient(ctx context.Context, room *models.ChatRoom, msg *models.ChatMessage) {
	recipient := room.Recipient(msg.SenderID)

	if msg.Type.Suppressible() {
		prefs, err := s.notifier.Preferences(ctx, recipient)
		if err != nil {
			s.l.Warn(ctx, "failed to load recipient preferences", "error", err.Error())
		} else if prefs.ChatMuted {
			s.l.Debug(ctx, "chat notification muted by recipient")
			return
		}
	}

	notification := chatNotification(room, msg)
	notification.UserID = recipient

	if _, err := s.notifier.Dispatch(ctx, notification); err != nil {
		s.l.Warn(ctx, "failed to notify chat recipient", "error", err.Error())
	}
}

func chatNotification(room *models.ChatRoom, msg *models.ChatMessage) models.NotificationMessage {
	senderRole := types.RoleDriver
	if msg.SenderID == room.RiderID {
		senderRole = types.RoleRider
	}

	n := models.NotificationMessage{
		Type: types.NotificationChatMessage,
		Payload: map[string]any{
			"type":        "chat_message",
			"chatRoomId":  room.ID.String(),
			"rideId":      room.RideID.String(),
			"messageId":   msg.ID.String(),
			"messageType": msg.Type.String(),
		},
	}

	switch msg.Type {
	case types.MessageLocation:
		n.Title = "Location Shared"
		n.Body = "The " + senderRole.String() + " shared their location"
	case types.MessageSafetyAlert:
		n.Title = "Safety Alert"
		n.Body = msg.Text
		n.Type = types.NotificationSafety
	default:
		n.Title = "New message from " + senderRole.String()
		n.Body = msg.Text
	}
	return n
}

func (s *Service) publishSafety(ctx context.Context, event types.SafetyEvent, room *models.ChatRoom, msg *models.ChatMessage) {
	if s.safety == nil {
		return
	}

	err := s.safety.PublishSafetyEvent(ctx, models.SafetyEventMessage{
		Event:      event,
		ChatRoomID: room.ID,
		RideID:     room.RideID,
		MessageID:  msg.ID,
		SenderID:   msg.SenderID,
		Text:       msg.Text,
		Timestamp:  s.clock(),
	})
	if err != nil {
		s.l.Warn(ctx, "failed to publish safety event", "event", event.String(), "error", err.Error())
	}
}
