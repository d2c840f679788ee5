package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

type ChatService interface {
	GetOrCreateRoom(ctx context.Context, rideID uuid.UUID, riderID, driverID string) (*models.ChatRoom, error)
	Deactivate(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, error)
	ParticipantRoom(ctx context.Context, roomID uuid.UUID, userID string) (*models.ChatRoom, error)
	Send(ctx context.Context, roomID uuid.UUID, senderID, text string, msgType types.MessageType) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, roomID uuid.UUID) ([]models.ChatMessage, error)
	MarkRead(ctx context.Context, roomID uuid.UUID, readerID string) (int64, error)
	UnreadCount(ctx context.Context, roomID uuid.UUID, readerID string) (int, error)
	Flag(ctx context.Context, messageID uuid.UUID, userID string) (*models.ChatMessage, error)
	QuickMessages(ctx context.Context) ([]models.QuickMessage, error)
}

type RideReader interface {
	GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error)
}

type Chat struct {
	service ChatService
	rides   RideReader
	responder
}

func NewChat(service ChatService, rides RideReader, l logger.Logger) *Chat {
	return &Chat{
		service:   service,
		rides:     rides,
		responder: responder{l: l},
	}
}

// OpenRoom godoc
// @Summary      Get or create the chat room of a ride
// @Tags         chat
// @Produce      json
// @Param        ride_id path string true "Ride ID"
// @Success      200 {object} models.ChatRoom
// @Failure      404 {object} map[string]interface{} "Not found"
// @Security     BearerAuth
// @Router       /rides/{ride_id}/chat [post]
func (h *Chat) OpenRoom(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_open_chat_room")

	ride, ok := h.participantRide(ctx, w, r)
	if !ok {
		return
	}

	room, err := h.service.GetOrCreateRoom(ctx, ride.ID, ride.RiderID, ride.DriverID)
	if err != nil {
		h.fail(ctx, w, "failed to open chat room", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"chat_room": room})
}

func (h *Chat) DeactivateRoom(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_deactivate_chat_room")

	ride, ok := h.participantRide(ctx, w, r)
	if !ok {
		return
	}

	room, err := h.service.Deactivate(ctx, ride.ID)
	if err != nil {
		h.fail(ctx, w, "failed to deactivate chat room", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"chat_room": room})
}

// ListMessages godoc
// @Summary      Messages of a chat room
// @Description  Ordered oldest first.
// @Tags         chat
// @Produce      json
// @Param        room_id path string true "Chat room ID"
// @Success      200 {array} models.ChatMessage
// @Failure      404 {object} map[string]interface{} "Not found"
// @Security     BearerAuth
// @Router       /chat/rooms/{room_id}/messages [get]
func (h *Chat) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_list_chat_messages")

	room, ok := h.participantRoom(ctx, w, r)
	if !ok {
		return
	}

	msgs, err := h.service.ListMessages(ctx, room.ID)
	if err != nil {
		h.fail(ctx, w, "failed to list chat messages", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"messages": msgs, "count": len(msgs)})
}

// SendMessage godoc
// @Summary      Send a chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        room_id path string true "Chat room ID"
// @Param        request body dto.SendMessageReq true "Message"
// @Success      201 {object} models.ChatMessage
// @Failure      409 {object} map[string]interface{} "Room is closed"
// @Failure      422 {object} map[string]interface{} "Validation error"
// @Security     BearerAuth
// @Router       /chat/rooms/{room_id}/messages [post]
func (h *Chat) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_send_chat_message")

	roomID, err := parseID(r, "room_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.SendMessageReq
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	msg, err := h.service.Send(ctx, roomID, caller(r).ID, req.Message, req.Type())
	if err != nil {
		h.fail(ctx, w, "failed to send chat message", err)
		return
	}

	h.write(ctx, w, http.StatusCreated, envelope{"message": msg})
}

func (h *Chat) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_mark_chat_read")

	room, ok := h.participantRoom(ctx, w, r)
	if !ok {
		return
	}

	n, err := h.service.MarkRead(ctx, room.ID, caller(r).ID)
	if err != nil {
		h.fail(ctx, w, "failed to mark messages read", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"marked": n})
}

func (h *Chat) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_chat_unread_count")

	room, ok := h.participantRoom(ctx, w, r)
	if !ok {
		return
	}

	n, err := h.service.UnreadCount(ctx, room.ID, caller(r).ID)
	if err != nil {
		h.fail(ctx, w, "failed to count unread messages", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"unread": n})
}

func (h *Chat) FlagMessage(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_flag_chat_message")

	messageID, err := parseID(r, "message_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	msg, err := h.service.Flag(ctx, messageID, caller(r).ID)
	if err != nil {
		h.fail(ctx, w, "failed to flag chat message", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"message": msg})
}

func (h *Chat) QuickMessages(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_quick_messages")

	list, err := h.service.QuickMessages(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to list quick messages", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"quick_messages": list})
}

func (h *Chat) participantRoom(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.ChatRoom, bool) {
	roomID, err := parseID(r, "room_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return nil, false
	}

	room, err := h.service.ParticipantRoom(ctx, roomID, caller(r).ID)
	if err != nil {
		h.fail(ctx, w, "failed to get chat room", err)
		return nil, false
	}
	return room, true
}

func (h *Chat) participantRide(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Ride, bool) {
	rideID, err := parseID(r, "ride_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return nil, false
	}

	ride, err := h.rides.GetRide(ctx, rideID)
	if err != nil {
		h.fail(ctx, w, "failed to get ride", err)
		return nil, false
	}
	if !ride.IsParticipant(caller(r).ID) {
		h.fail(ctx, w, "chat requested by non participant", types.ErrRideNotFound)
		return nil, false
	}
	return ride, true
}
