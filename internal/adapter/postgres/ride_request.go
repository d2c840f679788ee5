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
)

type RideRequestRepo struct {
	db *pgxpool.Pool
}

func NewRideRequestRepo(db *pgxpool.Pool) *RideRequestRepo {
	return &RideRequestRepo{db: db}
}

const requestColumns = `id, rider_id,
	pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng,
	vehicle_type, price, mood, is_scheduled, scheduled_time,
	status, cancelled_by, created_at, updated_at`

func scanRequest(row pgx.Row) (*models.RideRequest, error) {
	var req models.RideRequest
	err := row.Scan(
		&req.ID, &req.RiderID,
		&req.Pickup.Address, &req.Pickup.Latitude, &req.Pickup.Longitude,
		&req.Dropoff.Address, &req.Dropoff.Latitude, &req.Dropoff.Longitude,
		&req.VehicleType, &req.Price, &req.Mood, &req.IsScheduled, &req.ScheduledTime,
		&req.Status, &req.CancelledBy, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RideRequestRepo) Create(ctx context.Context, req *models.RideRequest) error {
	const op = "RideRequestRepo.Create"
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO ride_requests (
			id, rider_id,
			pickup_address, pickup_lat, pickup_lng,
			dropoff_address, dropoff_lat, dropoff_lng,
			vehicle_type, price, mood, is_scheduled, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at;`

	err := q.QueryRow(ctx, query,
		req.ID, req.RiderID,
		req.Pickup.Address, req.Pickup.Latitude, req.Pickup.Longitude,
		req.Dropoff.Address, req.Dropoff.Latitude, req.Dropoff.Longitude,
		req.VehicleType, req.Price, req.Mood, req.IsScheduled, req.ScheduledTime, req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RideRequestRepo) Get(ctx context.Context, id uuid.UUID) (*models.RideRequest, error) {
	const op = "RideRequestRepo.Get"
	q := TxorDB(ctx, r.db)

	req, err := scanRequest(q.QueryRow(ctx, `SELECT `+requestColumns+` FROM ride_requests WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideRequestNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// UpdateStatus sets the status only if it still equals change.From.
func (r *RideRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, change models.StatusChange[types.RequestStatus]) (*models.RideRequest, error) {
	const op = "RideRequestRepo.UpdateStatus"
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE ride_requests
		SET status = $3,
		    cancelled_by = COALESCE($4, cancelled_by),
		    updated_at = $5
		WHERE id = $1 AND status = $2
		RETURNING ` + requestColumns + `;`

	start := time.Now()
	req, err := scanRequest(q.QueryRow(ctx, query, id, change.From, change.To, change.By, change.At))
	observe(op, start, err)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// no row matched: either unknown id or status moved on
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ride_requests WHERE id = $1);`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, types.ErrRideRequestNotFound
	}
	return nil, types.ErrStatusChanged
}

func (r *RideRequestRepo) ListScheduled(ctx context.Context, riderID string, from time.Time) ([]models.RideRequest, error) {
	const op = "RideRequestRepo.ListScheduled"

	query := `
		SELECT ` + requestColumns + `
		FROM ride_requests
		WHERE rider_id = $1
		  AND is_scheduled
		  AND status NOT IN ('completed', 'cancelled')
		  AND scheduled_time >= $2
		ORDER BY scheduled_time ASC, created_at ASC;`

	reqs, err := r.list(ctx, query, riderID, from)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reqs, nil
}

func (r *RideRequestRepo) ListByRider(ctx context.Context, riderID string) ([]models.RideRequest, error) {
	const op = "RideRequestRepo.ListByRider"

	query := `SELECT ` + requestColumns + ` FROM ride_requests WHERE rider_id = $1 ORDER BY created_at DESC;`

	reqs, err := r.list(ctx, query, riderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reqs, nil
}

func (r *RideRequestRepo) list(ctx context.Context, query string, args ...any) ([]models.RideRequest, error) {
	q := TxorDB(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]models.RideRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}
