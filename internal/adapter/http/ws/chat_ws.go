package wshandler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/ride-coordinator/internal/adapter/http/handler"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/internal/relay"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/metrics"
	ws "github.com/Temutjin2k/ride-coordinator/pkg/wsHub"
)

const metricsService = "coordinator"

type RoomAuthorizer interface {
	ParticipantRoom(ctx context.Context, roomID uuid.UUID, userID string) (*models.ChatRoom, error)
}

type Subscriber interface {
	Subscribe(roomID uuid.UUID) *relay.Subscription
}

// ChatRelay streams relay events of a chat room to a participant's socket.
type ChatRelay struct {
	rooms    RoomAuthorizer
	hub      Subscriber
	upgrader websocket.Upgrader
	l        logger.Logger
}

func NewChatRelay(rooms RoomAuthorizer, hub Subscriber, allowedOrigins []string, l logger.Logger) *ChatRelay {
	return &ChatRelay{
		rooms: rooms,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		l: l,
	}
}

// ServeRoom handles GET /ws/chat/rooms/{room_id}.
// The stream ends when the client leaves, the room closes or the relay shuts down.
func (h *ChatRelay) ServeRoom(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_chat_room")

	roomID, err := uuid.Parse(r.PathValue("room_id"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid room_id format")
		return
	}
	ctx = wrap.WithRoomID(ctx, roomID.String())

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	room, err := h.rooms.ParticipantRoom(ctx, roomID, user.ID)
	if err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "websocket rejected", "error", err)
		errorResponse(w, handler.GetCode(err), err.Error())
		return
	}
	if !room.IsActive {
		errorResponse(w, http.StatusConflict, types.ErrChatRoomInactive.Error())
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied
		h.l.Warn(ctx, "websocket upgrade failed", "error", err)
		return
	}

	// the request context ends with the hijacked connection, keep only its values
	conn := ws.NewConn(context.WithoutCancel(ctx), user.ID, raw)
	sub := h.hub.Subscribe(room.ID)

	metrics.WebSocketConnectionsGauge.WithLabelValues(metricsService).Inc()
	defer metrics.WebSocketConnectionsGauge.WithLabelValues(metricsService).Dec()

	h.l.Info(ctx, "chat room stream opened")
	defer h.l.Info(ctx, "chat room stream closed")

	h.stream(ctx, conn, sub)
}

func (h *ChatRelay) stream(ctx context.Context, conn *ws.Conn, sub *relay.Subscription) {
	defer conn.Close()
	defer sub.Close()

	go func() {
		if err := conn.Listen(nil); err != nil {
			h.l.Debug(ctx, "websocket read ended", "error", err)
		}
	}()

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-conn.Done():
			return

		case ev, ok := <-sub.Events():
			if !ok {
				_ = sendError(conn, "relay closed")
				return
			}
			if err := conn.Send(ev); err != nil {
				h.l.Warn(ctx, "failed to push relay event", "error", err)
				return
			}
			if ev.Type == models.RelayRoomClosed {
				return
			}

		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				h.l.Debug(ctx, "websocket ping failed", "error", err)
				return
			}
		}
	}
}
