package microservices

import (
	"context"

	"github.com/Temutjin2k/ride-coordinator/config"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	"github.com/Temutjin2k/ride-coordinator/pkg/postgres"
)

// Migrate applies pending schema migrations and exits.
type Migrate struct {
	postgresDB *postgres.PostgreDB
	log        logger.Logger
}

func NewMigrate(ctx context.Context, cfg config.Config, log logger.Logger) (*Migrate, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	return &Migrate{
		postgresDB: postgresDB,
		log:        log,
	}, nil
}

func (m *Migrate) Start(ctx context.Context) error {
	defer m.postgresDB.Close()

	applied, err := postgres.Migrate(ctx, m.postgresDB.Pool)
	for _, name := range applied {
		m.log.Info(ctx, "migration applied", "file", name)
	}
	if err != nil {
		m.log.Error(ctx, "migration failed", err)
		return err
	}

	m.log.Info(ctx, "database is up to date", "applied", len(applied))
	return nil
}
