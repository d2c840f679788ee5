package microservices

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Temutjin2k/ride-coordinator/config"
	"github.com/Temutjin2k/ride-coordinator/internal/adapter/http/handler"
	"github.com/Temutjin2k/ride-coordinator/internal/adapter/http/server"
	rabbitadapter "github.com/Temutjin2k/ride-coordinator/internal/adapter/rabbit"
	redisrelay "github.com/Temutjin2k/ride-coordinator/internal/adapter/redis"
	"github.com/Temutjin2k/ride-coordinator/internal/adapter/webpush"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/relay"
	"github.com/Temutjin2k/ride-coordinator/internal/service/auth"
	"github.com/Temutjin2k/ride-coordinator/internal/service/chat"
	"github.com/Temutjin2k/ride-coordinator/internal/service/notification"
	"github.com/Temutjin2k/ride-coordinator/internal/service/ride"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	"github.com/Temutjin2k/ride-coordinator/pkg/rabbit"
)

// Coordinator runs the ride lifecycle, chat and notification services
// behind one HTTP server.
type Coordinator struct {
	store      *storage
	hub        *relay.Hub
	bridge     *redisrelay.Bridge
	redis      *goredis.Client
	rabbit     *rabbit.RabbitMQ
	broker     *rabbitadapter.RideBroker
	rides      *ride.Service
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewCoordinator(ctx context.Context, cfg config.Config, log logger.Logger) (*Coordinator, error) {
	c := &Coordinator{cfg: cfg, log: log}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		log.Error(ctx, "Failed to setup storage", err)
		return nil, err
	}
	c.store = store

	c.hub = relay.NewHub(cfg.Chat.RelayBuffer, log)
	var chatRelay chat.Relay = c.hub

	if cfg.Redis.Enabled {
		c.redis, err = redisrelay.NewClient(ctx, redisrelay.Config{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Error(ctx, "Failed to connect to redis", err)
			c.close(ctx)
			return nil, err
		}
		c.bridge = redisrelay.NewBridge(c.redis, c.hub, log)
		chatRelay = c.bridge
	}

	// typed nil pointers must not reach the services, they check for untyped nil
	var (
		publisher ride.EventPublisher
		safety    chat.SafetyPublisher
	)
	if cfg.RabbitMQ.Enabled {
		c.rabbit, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			log.Error(ctx, "Failed to connect to rabbitmq", err)
			c.close(ctx)
			return nil, err
		}
		if err = c.rabbit.Declare(rabbitadapter.Topology()); err != nil {
			log.Error(ctx, "Failed to declare rabbitmq topology", err)
			c.close(ctx)
			return nil, err
		}
		c.broker = rabbitadapter.NewRideBroker(c.rabbit, log)
		publisher, safety = c.broker, c.broker
	}

	publicKey, privateKey := cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey
	if publicKey == "" || privateKey == "" {
		privateKey, publicKey, err = webpush.GenerateKeys()
		if err != nil {
			log.Error(ctx, "Failed to generate VAPID keys", err)
			c.close(ctx)
			return nil, err
		}
		log.Warn(ctx, "VAPID keys are not configured, generated ephemeral keys", "public_key", publicKey)
	}
	transport := webpush.New(webpush.Config{
		Subject:    cfg.Push.Subject,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		TTL:        cfg.Push.TTL,
	}, &http.Client{})

	registry := notification.NewRegistry(store.subs, store.prefs, log)
	dispatcher := notification.NewDispatcher(registry, store.notifications, transport, notification.DispatcherConfig{
		Parallelism:    cfg.Dispatch.Parallelism,
		AttemptTimeout: cfg.Dispatch.AttemptTimeout,
	}, log)

	chatService := chat.NewService(store.rooms, store.messages, store.quick, chatRelay, dispatcher, safety, chat.Config{
		LookupTimeout: cfg.Chat.LookupTimeout,
	}, log)

	c.rides = ride.NewService(store.requests, store.rides, store.events, store.feedback, chatService, dispatcher, publisher, store.trm, ride.Config{
		MatchingWindow: cfg.Ride.MatchingWindow,
	}, log)

	c.httpServer, err = server.New(cfg.Server, server.Deps{
		Rides:          c.rides,
		Chat:           chatService,
		Registry:       registry,
		Dispatcher:     dispatcher,
		Rooms:          chatService,
		Relay:          c.hub,
		Auth:           auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Leeway),
		VAPIDPublicKey: publicKey,
		HealthChecks:   c.healthChecks(),
	}, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		c.close(ctx)
		return nil, err
	}

	return c, nil
}

func (c *Coordinator) healthChecks() map[string]handler.Check {
	checks := map[string]handler.Check{
		"storage": c.store.ping,
	}
	if c.rabbit != nil {
		checks["rabbitmq"] = func(context.Context) error {
			if c.rabbit.IsConnectionClosed() {
				return errors.New("connection closed")
			}
			return nil
		}
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (c *Coordinator) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	workersCtx, stopWorkers := context.WithCancel(ctx)
	workers := c.startWorkers(workersCtx, errCh)

	c.httpServer.Run(ctx, errCh)
	defer func() {
		stopWorkers()
		if err := workers.Wait(); err != nil {
			c.log.Warn(ctx, "background worker stopped with error", "error", err.Error())
		}
		c.close(ctx)
		c.log.Info(ctx, "coordinator service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	c.log.Info(ctx, "Coordinator service has been started", "storage", string(c.cfg.Storage.Driver), "port", c.cfg.Server.Port)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		c.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

// startWorkers runs the broker consumers and the redis bridge.
// The first failing worker is reported into errCh.
func (c *Coordinator) startWorkers(ctx context.Context, errCh chan<- error) *errgroup.Group {
	g, gctx := errgroup.WithContext(ctx)

	if c.broker != nil {
		g.Go(func() error {
			return c.broker.ConsumeDriverDecisions(gctx, func(ctx context.Context, msg models.DriverDecisionMessage) error {
				_, _, err := c.rides.AcceptRequest(ctx, msg.RequestID, msg.DriverID, msg.AgreedPrice)
				return err
			})
		})
		g.Go(func() error {
			return c.broker.ConsumeRideProgress(gctx, func(ctx context.Context, msg models.RideProgressMessage) error {
				_, err := c.rides.AdvanceRide(ctx, msg.RideID, msg.Status)
				return err
			})
		})
	}

	if c.bridge != nil {
		g.Go(func() error {
			return c.bridge.Run(gctx)
		})
	}

	go func() {
		// a nil error also means ctx was cancelled on shutdown
		if err := g.Wait(); err != nil && ctx.Err() == nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}()

	return g
}

func (c *Coordinator) close(ctx context.Context) {
	if c.httpServer != nil {
		if err := c.httpServer.Stop(ctx); err != nil {
			c.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if c.hub != nil {
		c.hub.Close()
	}

	if c.rabbit != nil {
		if err := c.rabbit.Close(ctx); err != nil {
			c.log.Warn(ctx, "Failed to close rabbitmq connection", "error", err.Error())
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warn(ctx, "Failed to close redis client", "error", err.Error())
		}
	}

	if c.store != nil {
		c.store.close()
	}
}
