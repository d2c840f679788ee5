package dto

import (
	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

// SubscribeReq is the PushSubscription JSON of the browser Push API.
type SubscribeReq struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (r *SubscribeReq) Validate(v *validator.Validator) {
	v.Check(len(r.Endpoint) <= 2048, "endpoint", "must not be more than 2048 characters long")
}

func (r *SubscribeReq) ToModel() models.PushKeys {
	return models.PushKeys{P256dh: r.Keys.P256dh, Auth: r.Keys.Auth}
}

type UnsubscribeReq struct {
	Endpoint string `json:"endpoint"`
}

func (r *UnsubscribeReq) Validate(v *validator.Validator) {
	v.Check(validator.NotBlank(r.Endpoint), "endpoint", "must be provided")
}

type PreferencesReq struct {
	ChatMuted *bool `json:"chat_muted"`
}

func (r *PreferencesReq) Validate(v *validator.Validator) {
	v.Check(r.ChatMuted != nil, "chat_muted", "must be provided")
}

func (r *PreferencesReq) ToModel(userID string) models.Preferences {
	return models.Preferences{UserID: userID, ChatMuted: *r.ChatMuted}
}

type DispatchReq struct {
	UserID  string         `json:"user_id"`
	Title   string         `json:"title"`
	Body    string         `json:"body"`
	Type    string         `json:"type,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

func (r *DispatchReq) Validate(v *validator.Validator) {
	v.Check(len(r.Title) <= 255, "title", "must not be more than 255 characters long")
	v.Check(len(r.Body) <= 4096, "body", "must not be more than 4096 characters long")
	if r.Type != "" {
		v.Check(validator.PermittedValue(types.NotificationType(r.Type),
			types.NotificationGeneral, types.NotificationRideUpdate, types.NotificationChatMessage, types.NotificationSafety),
			"type", "must be one of: general, ride_update, chat_message, safety_alert")
	}
}

func (r *DispatchReq) ToModel() models.NotificationMessage {
	return models.NotificationMessage{
		UserID:  r.UserID,
		Title:   r.Title,
		Body:    r.Body,
		Type:    types.NotificationType(r.Type),
		Payload: r.Payload,
	}
}
