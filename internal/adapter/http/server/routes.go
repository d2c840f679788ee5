package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Temutjin2k/ride-coordinator/docs"
	"github.com/Temutjin2k/ride-coordinator/internal/adapter/http/middleware"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)

	setupRideRoutes(mux, routes, m)
	setupChatRoutes(mux, routes, m)
	setupPushRoutes(mux, routes, m)
}

func setupRideRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /ride-requests", m.RequireRoles(routes.ride.CreateRequest, types.RoleRider))                      // Create a ride request
	mux.Handle("GET /ride-requests/{request_id}", m.RequireRoles(routes.ride.GetRequest))                              // Get a ride request
	mux.Handle("POST /ride-requests/{request_id}/accept", m.RequireRoles(routes.ride.AcceptRequest, types.RoleDriver)) // Accept a pending request
	mux.Handle("POST /ride-requests/{request_id}/cancel", m.RequireRoles(routes.ride.CancelRequest))                   // Cancel a request
	mux.Handle("GET /ride-requests/{request_id}/eligibility", m.RequireRoles(routes.ride.Eligibility))                 // Matching eligibility
	mux.Handle("GET /ride-requests/{request_id}/ride", m.RequireRoles(routes.ride.GetRideByRequest))                   // Ride of a request

	mux.Handle("GET /riders/me/scheduled", m.RequireRoles(routes.ride.ListScheduled, types.RoleRider))   // Upcoming scheduled rides
	mux.Handle("GET /riders/me/ride-requests", m.RequireRoles(routes.ride.ListHistory, types.RoleRider)) // Ride history

	mux.Handle("GET /rides/{ride_id}", m.RequireRoles(routes.ride.GetRide))                               // Get a ride
	mux.Handle("POST /rides/{ride_id}/status", m.RequireRoles(routes.ride.AdvanceRide, types.RoleDriver)) // Advance a ride
	mux.Handle("POST /rides/{ride_id}/cancel", m.RequireRoles(routes.ride.CancelRide))                    // Cancel a ride
	mux.Handle("POST /rides/{ride_id}/feedback", m.RequireRoles(routes.ride.SubmitFeedback))              // Rate a completed ride
}

func setupChatRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /rides/{ride_id}/chat", m.RequireRoles(routes.chat.OpenRoom))
	mux.Handle("POST /rides/{ride_id}/chat/deactivate", m.RequireRoles(routes.chat.DeactivateRoom))

	mux.Handle("GET /chat/rooms/{room_id}/messages", m.RequireRoles(routes.chat.ListMessages))
	mux.Handle("POST /chat/rooms/{room_id}/messages", m.RequireRoles(routes.chat.SendMessage))
	mux.Handle("POST /chat/rooms/{room_id}/read", m.RequireRoles(routes.chat.MarkRead))
	mux.Handle("GET /chat/rooms/{room_id}/unread", m.RequireRoles(routes.chat.UnreadCount))
	mux.Handle("POST /chat/messages/{message_id}/flag", m.RequireRoles(routes.chat.FlagMessage))
	mux.Handle("GET /chat/quick-messages", m.RequireRoles(routes.chat.QuickMessages))

	mux.HandleFunc("GET /ws/chat/rooms/{room_id}", routes.relay.ServeRoom) // WebSocket relay of a room
}

func setupPushRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.HandleFunc("GET /push/public-key", routes.push.PublicKey)
	mux.Handle("POST /push/subscriptions", m.RequireRoles(routes.push.Subscribe))
	mux.Handle("DELETE /push/subscriptions", m.RequireRoles(routes.push.Unsubscribe))
	mux.Handle("GET /push/preferences", m.RequireRoles(routes.push.GetPreferences))
	mux.Handle("PUT /push/preferences", m.RequireRoles(routes.push.SetPreferences))

	mux.Handle("POST /notifications/dispatch", m.RequireRoles(routes.push.Dispatch, types.RoleService))
}

// setupSwaggerRoutes configures Swagger UI endpoints
func setupSwaggerRoutes(mux *http.ServeMux) {
	swaggerURL := httpSwagger.InstanceName(docs.InstanceName)
	mux.HandleFunc("/swagger/", httpSwagger.Handler(swaggerURL))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
