package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
)

type RideEventRepo struct {
	db *pgxpool.Pool
}

func NewRideEventRepo(db *pgxpool.Pool) *RideEventRepo {
	return &RideEventRepo{db: db}
}

// CreateEvent appends a lifecycle event to the audit trail.
func (r *RideEventRepo) CreateEvent(ctx context.Context, ev models.RideEventRecord) error {
	const op = "RideEventRepo.CreateEvent"
	q := TxorDB(ctx, r.db)

	data := ev.Data
	if data == nil {
		data = map[string]any{}
	}

	query := `INSERT INTO ride_events (request_id, ride_id, event_type, event_data)
			  VALUES ($1, $2, $3, $4);`

	if _, err := q.Exec(ctx, query, ev.RequestID, ev.RideID, ev.Type.String(), data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
