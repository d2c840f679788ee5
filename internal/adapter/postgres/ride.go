package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/postgres"
)

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

const rideColumns = `id, request_id, rider_id, driver_id, agreed_price, status,
	started_at, completed_at, cancelled_at, cancelled_by, created_at, updated_at`

func scanRide(row pgx.Row) (*models.Ride, error) {
	var ride models.Ride
	err := row.Scan(
		&ride.ID, &ride.RequestID, &ride.RiderID, &ride.DriverID, &ride.AgreedPrice, &ride.Status,
		&ride.StartedAt, &ride.CompletedAt, &ride.CancelledAt, &ride.CancelledBy, &ride.CreatedAt, &ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) error {
	const op = "RideRepo.Create"
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO rides (id, request_id, rider_id, driver_id, agreed_price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at;`

	err := q.QueryRow(ctx, query,
		ride.ID, ride.RequestID, ride.RiderID, ride.DriverID, ride.AgreedPrice, ride.Status,
	).Scan(&ride.CreatedAt, &ride.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return types.ErrRideAlreadyAccepted
		}
		if postgres.IsForeignKeyViolation(err) {
			return types.ErrRideRequestNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RideRepo) Get(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	const op = "RideRepo.Get"
	q := TxorDB(ctx, r.db)

	ride, err := scanRide(q.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ride, nil
}

func (r *RideRepo) GetByRequest(ctx context.Context, requestID uuid.UUID) (*models.Ride, error) {
	const op = "RideRepo.GetByRequest"
	q := TxorDB(ctx, r.db)

	ride, err := scanRide(q.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE request_id = $1;`, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ride, nil
}

// UpdateStatus sets the status only if it still equals change.From.
// Lifecycle timestamps are filled in the same statement.
func (r *RideRepo) UpdateStatus(ctx context.Context, id uuid.UUID, change models.StatusChange[types.RideStatus]) (*models.Ride, error) {
	const op = "RideRepo.UpdateStatus"
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE rides
		SET status = $3,
		    started_at   = CASE WHEN $3 = 'enroute'   THEN $4 ELSE started_at END,
		    completed_at = CASE WHEN $3 = 'completed' THEN $4 ELSE completed_at END,
		    cancelled_at = CASE WHEN $3 = 'cancelled' THEN $4 ELSE cancelled_at END,
		    cancelled_by = COALESCE($5, cancelled_by),
		    updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING ` + rideColumns + `;`

	start := time.Now()
	ride, err := scanRide(q.QueryRow(ctx, query, id, change.From, string(change.To), change.At, change.By))
	observe(op, start, err)
	if err == nil {
		return ride, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rides WHERE id = $1);`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, types.ErrRideNotFound
	}
	return nil, types.ErrStatusChanged
}
