package microservices

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/ride-coordinator/config"
	"github.com/Temutjin2k/ride-coordinator/internal/adapter/memory"
	repo "github.com/Temutjin2k/ride-coordinator/internal/adapter/postgres"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/internal/service/chat"
	"github.com/Temutjin2k/ride-coordinator/internal/service/notification"
	"github.com/Temutjin2k/ride-coordinator/internal/service/ride"
	"github.com/Temutjin2k/ride-coordinator/pkg/postgres"
	"github.com/Temutjin2k/ride-coordinator/pkg/trm"
)

// storage is the set of repositories of one backend.
type storage struct {
	requests ride.RequestRepo
	rides    ride.RideRepo
	events   ride.EventRepo
	feedback ride.FeedbackRepo

	rooms    chat.RoomRepo
	messages chat.MessageRepo
	quick    chat.QuickMessageRepo

	subs          notification.SubscriptionRepo
	prefs         notification.PreferencesRepo
	notifications notification.NotificationRepo

	trm trm.TxManager

	// db is nil for the memory backend
	db *postgres.PostgreDB
}

func newStorage(ctx context.Context, cfg config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case types.StorageMemory:
		s := memory.NewStore()
		return &storage{
			requests:      memory.NewRideRequestRepo(s),
			rides:         memory.NewRideRepo(s),
			events:        memory.NewRideEventRepo(s),
			feedback:      memory.NewFeedbackRepo(s),
			rooms:         memory.NewChatRoomRepo(s),
			messages:      memory.NewChatMessageRepo(s),
			quick:         memory.NewQuickMessageRepo(s),
			subs:          memory.NewPushSubscriptionRepo(s),
			prefs:         memory.NewPreferencesRepo(s),
			notifications: memory.NewNotificationRepo(s),
			trm:           memory.NewTxManager(s),
		}, nil
	case types.StoragePostgres:
		db, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return &storage{
			requests:      repo.NewRideRequestRepo(db.Pool),
			rides:         repo.NewRideRepo(db.Pool),
			events:        repo.NewRideEventRepo(db.Pool),
			feedback:      repo.NewFeedbackRepo(db.Pool),
			rooms:         repo.NewChatRoomRepo(db.Pool),
			messages:      repo.NewChatMessageRepo(db.Pool),
			quick:         repo.NewQuickMessageRepo(db.Pool),
			subs:          repo.NewPushSubscriptionRepo(db.Pool),
			prefs:         repo.NewPreferencesRepo(db.Pool),
			notifications: repo.NewNotificationRepo(db.Pool),
			trm:           trm.New(db.Pool),
			db:            db,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

// ping reports database reachability, memory storage is always up.
func (s *storage) ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Pool.Ping(ctx)
}

func (s *storage) close() {
	s.db.Close()
}
