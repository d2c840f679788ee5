package dto

import (
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

type SendMessageReq struct {
	Message     string `json:"message"`
	MessageType string `json:"message_type,omitempty"`
}

// Validate rejects system messages, only the coordinator writes those.
func (r *SendMessageReq) Validate(v *validator.Validator) {
	if r.MessageType == "" {
		return
	}
	v.Check(validator.PermittedValue(types.MessageType(r.MessageType), types.MessageText, types.MessageLocation, types.MessageSafetyAlert),
		"message_type", "must be one of: text, location, safety_alert")
}

func (r *SendMessageReq) Type() types.MessageType {
	if r.MessageType == "" {
		return types.MessageText
	}
	return types.MessageType(r.MessageType)
}
