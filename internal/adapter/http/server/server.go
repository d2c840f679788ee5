package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Temutjin2k/ride-coordinator/config"
	"github.com/Temutjin2k/ride-coordinator/internal/adapter/http/handler"
	"github.com/Temutjin2k/ride-coordinator/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/ride-coordinator/internal/adapter/http/ws"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
)

const serviceName = "coordinator"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr            string
	shutdownTimeout time.Duration
	log             logger.Logger
}

type handlers struct {
	health *handler.Health
	ride   *handler.Ride
	chat   *handler.Chat
	push   *handler.Push
	relay  *wshandler.ChatRelay
}

// Deps are the services behind the HTTP surface.
type Deps struct {
	Rides      handler.RideService
	Chat       handler.ChatService
	Registry   handler.SubscriptionRegistry
	Dispatcher handler.NotificationDispatcher
	Rooms      wshandler.RoomAuthorizer
	Relay      wshandler.Subscriber
	Auth       middleware.AuthService

	VAPIDPublicKey string
	HealthChecks   map[string]handler.Check
}

func New(cfg config.ServerConfig, deps Deps, log logger.Logger) (*API, error) {
	if deps.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	if deps.Rides == nil || deps.Chat == nil || deps.Registry == nil || deps.Dispatcher == nil {
		return nil, errors.New("ride, chat and notification services are required")
	}

	routes := &handlers{
		health: handler.NewHealth(serviceName, deps.HealthChecks, log),
		ride:   handler.NewRide(deps.Rides, log),
		chat:   handler.NewChat(deps.Chat, deps.Rides, log),
		push:   handler.NewPush(deps.Registry, deps.Dispatcher, deps.VAPIDPublicKey, log),
		relay:  wshandler.NewChatRelay(deps.Rooms, deps.Relay, cfg.AllowedOrigins, log),
	}

	api := &API{
		mux:             http.NewServeMux(),
		routes:          routes,
		m:               middleware.NewMiddleware(deps.Auth, log),
		addr:            net.JoinHostPort("0.0.0.0", cfg.Port),
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	return api, nil
}

func (a *API) setupRoutes() {
	setupRoutes(a.mux, a.routes, a.m)
}

// Handler returns the fully wrapped mux.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	timeout := a.shutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux. Metrics wraps the mux
// directly to see the matched pattern.
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Auth(a.m.Metrics(serviceName)(a.mux)))))
}
