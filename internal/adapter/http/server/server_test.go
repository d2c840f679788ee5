package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/ride-coordinator/config"
	"github.com/Temutjin2k/ride-coordinator/internal/adapter/http/handler"
	"github.com/Temutjin2k/ride-coordinator/internal/adapter/memory"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/internal/relay"
	"github.com/Temutjin2k/ride-coordinator/internal/service/chat"
	"github.com/Temutjin2k/ride-coordinator/internal/service/notification"
	"github.com/Temutjin2k/ride-coordinator/internal/service/ride"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
)

const (
	riderToken   = "rider-token"
	rider2Token  = "rider2-token"
	driverToken  = "driver-token"
	serviceToken = "service-token"
)

type fakeAuth map[string]*models.User

func (f fakeAuth) RoleCheck(_ context.Context, token string) (*models.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid token")
}

type deliveredTransport struct{}

func (deliveredTransport) Deliver(context.Context, models.PushSubscription, []byte) (types.DeliveryOutcome, error) {
	return types.DeliveryDelivered, nil
}

func newTestAPI(t *testing.T, checks map[string]handler.Check) http.Handler {
	t.Helper()

	l := logger.Discard()
	store := memory.NewStore()
	hub := relay.NewHub(8, l)
	t.Cleanup(hub.Close)

	registry := notification.NewRegistry(memory.NewPushSubscriptionRepo(store), memory.NewPreferencesRepo(store), l)
	dispatcher := notification.NewDispatcher(registry, memory.NewNotificationRepo(store), deliveredTransport{}, notification.DispatcherConfig{}, l)

	chatService := chat.NewService(memory.NewChatRoomRepo(store), memory.NewChatMessageRepo(store), memory.NewQuickMessageRepo(store),
		hub, dispatcher, nil, chat.Config{}, l)
	rides := ride.NewService(memory.NewRideRequestRepo(store), memory.NewRideRepo(store), memory.NewRideEventRepo(store),
		memory.NewFeedbackRepo(store), chatService, dispatcher, nil, memory.NewTxManager(store), ride.Config{}, l)

	api, err := New(config.ServerConfig{Port: "0"}, Deps{
		Rides:      rides,
		Chat:       chatService,
		Registry:   registry,
		Dispatcher: dispatcher,
		Rooms:      chatService,
		Relay:      hub,
		Auth: fakeAuth{
			riderToken:   {ID: "rider-1", Role: types.RoleRider},
			rider2Token:  {ID: "rider-2", Role: types.RoleRider},
			driverToken:  {ID: "driver-1", Role: types.RoleDriver},
			serviceToken: {ID: "matching", Role: types.RoleService},
		},
		VAPIDPublicKey: "test-public-key",
		HealthChecks:   checks,
	}, l)
	require.NoError(t, err)
	return api.Handler()
}

type response struct {
	code int
	body map[string]any
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := response{code: rec.Code}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.body), rec.Body.String())
	}
	return res
}

// field walks nested objects of a decoded body.
func field(t *testing.T, body map[string]any, path ...string) any {
	t.Helper()

	var cur any = body
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		require.Truef(t, ok, "%v is not an object at %q", cur, key)
		cur = obj[key]
	}
	return cur
}

func createRequest(t *testing.T, h http.Handler) string {
	t.Helper()

	res := do(t, h, http.MethodPost, "/ride-requests", riderToken, map[string]any{
		"pickup":       map[string]any{"address": "A"},
		"dropoff":      map[string]any{"address": "B"},
		"vehicle_type": "car",
		"price":        15,
	})
	require.Equal(t, http.StatusCreated, res.code, res.body)
	assert.Equal(t, "pending", field(t, res.body, "ride_request", "status"))
	return field(t, res.body, "ride_request", "id").(string)
}

func TestRideAndChatFlow(t *testing.T) {
	h := newTestAPI(t, nil)

	requestID := createRequest(t, h)

	res := do(t, h, http.MethodGet, "/ride-requests/"+requestID, driverToken, nil)
	assert.Equal(t, http.StatusOK, res.code)
	res = do(t, h, http.MethodGet, "/ride-requests/"+requestID, rider2Token, nil)
	assert.Equal(t, http.StatusNotFound, res.code, "other riders must not see the request")

	res = do(t, h, http.MethodGet, "/ride-requests/"+requestID+"/eligibility", riderToken, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, true, field(t, res.body, "eligibility", "eligible"))

	res = do(t, h, http.MethodPost, "/ride-requests/"+requestID+"/accept", driverToken, map[string]any{"agreed_price": 15})
	require.Equal(t, http.StatusCreated, res.code, res.body)
	rideID := field(t, res.body, "ride", "id").(string)
	roomID := field(t, res.body, "chat_room", "id").(string)
	assert.Equal(t, "accepted", field(t, res.body, "ride", "status"))
	assert.Equal(t, true, field(t, res.body, "chat_room", "is_active"))

	res = do(t, h, http.MethodPost, "/ride-requests/"+requestID+"/accept", driverToken, map[string]any{"agreed_price": 15})
	assert.Equal(t, http.StatusConflict, res.code, "second acceptance")

	res = do(t, h, http.MethodPost, "/rides/"+rideID+"/chat", riderToken, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, roomID, field(t, res.body, "chat_room", "id"), "open returns the room created on acceptance")

	res = do(t, h, http.MethodPost, "/chat/rooms/"+roomID+"/messages", riderToken, map[string]any{"message": "hi"})
	require.Equal(t, http.StatusCreated, res.code, res.body)
	assert.Equal(t, "text", field(t, res.body, "message", "message_type"))
	messageID := field(t, res.body, "message", "id").(string)

	res = do(t, h, http.MethodPost, "/chat/messages/"+messageID+"/flag", rider2Token, nil)
	assert.Equal(t, http.StatusNotFound, res.code, "non participant cannot flag")
	assert.NotContains(t, res.body, "message")

	res = do(t, h, http.MethodPost, "/chat/messages/"+messageID+"/flag", driverToken, nil)
	require.Equal(t, http.StatusOK, res.code, res.body)
	assert.Equal(t, true, field(t, res.body, "message", "is_flagged"))

	res = do(t, h, http.MethodPost, "/chat/rooms/"+roomID+"/messages", rider2Token, map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusNotFound, res.code, "non participant")

	res = do(t, h, http.MethodGet, "/chat/rooms/"+roomID+"/unread", driverToken, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.EqualValues(t, 1, field(t, res.body, "unread"))

	res = do(t, h, http.MethodPost, "/chat/rooms/"+roomID+"/read", driverToken, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.EqualValues(t, 1, field(t, res.body, "marked"))

	res = do(t, h, http.MethodGet, "/chat/rooms/"+roomID+"/messages", driverToken, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.EqualValues(t, 1, field(t, res.body, "count"))

	res = do(t, h, http.MethodPost, "/rides/"+rideID+"/status", driverToken, map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusConflict, res.code, "completed straight from accepted")

	res = do(t, h, http.MethodPost, "/rides/"+rideID+"/feedback", riderToken, map[string]any{"rating": 5, "safety_rating": 5})
	assert.Equal(t, http.StatusConflict, res.code, "feedback before completion")

	for _, status := range []string{"arriving", "pickup", "enroute", "completed"} {
		res = do(t, h, http.MethodPost, "/rides/"+rideID+"/status", driverToken, map[string]any{"status": status})
		require.Equal(t, http.StatusOK, res.code, status)
		assert.Equal(t, status, field(t, res.body, "ride", "status"))
	}

	res = do(t, h, http.MethodGet, "/ride-requests/"+requestID, riderToken, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "completed", field(t, res.body, "ride_request", "status"))

	res = do(t, h, http.MethodPost, "/chat/rooms/"+roomID+"/messages", riderToken, map[string]any{"message": "thanks"})
	assert.Equal(t, http.StatusConflict, res.code, "room is closed with the ride")

	res = do(t, h, http.MethodPost, "/rides/"+rideID+"/feedback", riderToken, map[string]any{"rating": 5, "safety_rating": 4, "tags": []string{"clean"}})
	require.Equal(t, http.StatusCreated, res.code, res.body)
	res = do(t, h, http.MethodPost, "/rides/"+rideID+"/feedback", riderToken, map[string]any{"rating": 5, "safety_rating": 4})
	assert.Equal(t, http.StatusConflict, res.code, "duplicate feedback")

	res = do(t, h, http.MethodGet, "/riders/me/ride-requests", riderToken, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.EqualValues(t, 1, field(t, res.body, "count"))
}

func TestCancelledRequestCannotBeAccepted(t *testing.T) {
	h := newTestAPI(t, nil)
	requestID := createRequest(t, h)

	res := do(t, h, http.MethodPost, "/ride-requests/"+requestID+"/cancel", riderToken, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "cancelled", field(t, res.body, "ride_request", "status"))
	assert.Equal(t, "rider-1", field(t, res.body, "ride_request", "cancelled_by"))

	res = do(t, h, http.MethodPost, "/ride-requests/"+requestID+"/accept", driverToken, map[string]any{"agreed_price": 15})
	assert.Equal(t, http.StatusConflict, res.code)

	res = do(t, h, http.MethodGet, "/ride-requests/"+requestID+"/ride", riderToken, nil)
	assert.Equal(t, http.StatusNotFound, res.code)
}

func TestErrorStatuses(t *testing.T) {
	h := newTestAPI(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{name: "anonymous", method: http.MethodGet, path: "/chat/quick-messages", want: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/chat/quick-messages", token: "nope", want: http.StatusUnauthorized},
		{name: "driver creates request", method: http.MethodPost, path: "/ride-requests", token: driverToken, body: map[string]any{}, want: http.StatusForbidden},
		{name: "rider dispatches", method: http.MethodPost, path: "/notifications/dispatch", token: riderToken, body: map[string]any{}, want: http.StatusForbidden},
		{name: "malformed id", method: http.MethodGet, path: "/ride-requests/not-a-uuid", token: riderToken, want: http.StatusBadRequest},
		{name: "unknown request", method: http.MethodGet, path: "/ride-requests/1b4e28ba-2fa1-11d2-883f-0016d3cca427", token: riderToken, want: http.StatusNotFound},
		{name: "unknown ride", method: http.MethodGet, path: "/rides/1b4e28ba-2fa1-11d2-883f-0016d3cca427", token: riderToken, want: http.StatusNotFound},
		{name: "empty body", method: http.MethodPost, path: "/ride-requests", token: riderToken, want: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/ride-requests", token: riderToken, body: map[string]any{"color": "red"}, want: http.StatusBadRequest},
		{
			name: "non positive price", method: http.MethodPost, path: "/ride-requests", token: riderToken,
			body: map[string]any{"pickup": map[string]any{"address": "A"}, "dropoff": map[string]any{"address": "B"}, "vehicle_type": "car", "price": 0},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown vehicle", method: http.MethodPost, path: "/ride-requests", token: riderToken,
			body: map[string]any{"pickup": map[string]any{"address": "A"}, "dropoff": map[string]any{"address": "B"}, "vehicle_type": "boat", "price": 10},
			want: http.StatusUnprocessableEntity,
		},
		{name: "dispatch without title", method: http.MethodPost, path: "/notifications/dispatch", token: serviceToken, body: map[string]any{"user_id": "rider-1"}, want: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, h, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, res.code, res.body)
		})
	}
}

func TestPushRoutes(t *testing.T) {
	h := newTestAPI(t, nil)

	res := do(t, h, http.MethodGet, "/push/public-key", "", nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "test-public-key", field(t, res.body, "public_key"))

	res = do(t, h, http.MethodPost, "/push/subscriptions", riderToken, map[string]any{
		"endpoint": "https://push.example.com/abc",
		"keys":     map[string]any{"p256dh": "key", "auth": "secret"},
	})
	require.Equal(t, http.StatusCreated, res.code, res.body)

	res = do(t, h, http.MethodPost, "/notifications/dispatch", serviceToken, map[string]any{
		"user_id": "rider-1",
		"title":   "Driver is arriving",
		"type":    "ride_update",
	})
	require.Equal(t, http.StatusOK, res.code, res.body)
	assert.Equal(t, true, field(t, res.body, "result", "delivered"))
	assert.EqualValues(t, 1, field(t, res.body, "result", "success_count"))

	res = do(t, h, http.MethodPut, "/push/preferences", riderToken, map[string]any{"chat_muted": true})
	require.Equal(t, http.StatusOK, res.code, res.body)
	res = do(t, h, http.MethodGet, "/push/preferences", riderToken, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, true, field(t, res.body, "preferences", "chat_muted"))

	res = do(t, h, http.MethodDelete, "/push/subscriptions", riderToken, map[string]any{"endpoint": "https://push.example.com/abc"})
	require.Equal(t, http.StatusOK, res.code)
	assert.EqualValues(t, 1, field(t, res.body, "deactivated"))

	res = do(t, h, http.MethodPost, "/notifications/dispatch", serviceToken, map[string]any{"user_id": "rider-1", "title": "again"})
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, false, field(t, res.body, "result", "delivered"))
}

func TestHealth(t *testing.T) {
	healthy := newTestAPI(t, map[string]handler.Check{
		"storage": func(context.Context) error { return nil },
	})
	res := do(t, healthy, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "available", field(t, res.body, "status"))

	degraded := newTestAPI(t, map[string]handler.Check{
		"storage":  func(context.Context) error { return nil },
		"rabbitmq": func(context.Context) error { return errors.New("down") },
	})
	res = do(t, degraded, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.code)
	assert.Equal(t, "unavailable", field(t, res.body, "system_info", "dependencies", "rabbitmq"))
	assert.Equal(t, "ok", field(t, res.body, "system_info", "dependencies", "storage"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "corr-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "corr-42", rec.Header().Get("X-Request-ID"))
}
