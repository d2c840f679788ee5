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

type ChatRoomRepo struct {
	db *pgxpool.Pool
}

func NewChatRoomRepo(db *pgxpool.Pool) *ChatRoomRepo {
	return &ChatRoomRepo{db: db}
}

const roomColumns = `id, ride_id, rider_id, driver_id, is_active, created_at, updated_at`

func scanRoom(row pgx.Row) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := row.Scan(&room.ID, &room.RideID, &room.RiderID, &room.DriverID, &room.IsActive, &room.CreatedAt, &room.UpdatedAt); err != nil {
		return nil, err
	}
	return &room, nil
}

// GetOrCreate inserts room unless one already exists for room.RideID.
// The no-op DO UPDATE makes RETURNING yield the existing row on conflict;
// xmax = 0 only for a freshly inserted tuple.
func (r *ChatRoomRepo) GetOrCreate(ctx context.Context, room *models.ChatRoom) (*models.ChatRoom, bool, error) {
	const op = "ChatRoomRepo.GetOrCreate"
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO chat_rooms (id, ride_id, rider_id, driver_id, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (ride_id) DO UPDATE SET ride_id = EXCLUDED.ride_id
		RETURNING ` + roomColumns + `, (xmax = 0) AS inserted;`

	var (
		got      models.ChatRoom
		inserted bool
	)
	start := time.Now()
	err := q.QueryRow(ctx, query, room.ID, room.RideID, room.RiderID, room.DriverID).Scan(
		&got.ID, &got.RideID, &got.RiderID, &got.DriverID, &got.IsActive, &got.CreatedAt, &got.UpdatedAt, &inserted,
	)
	observe(op, start, err)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return nil, false, types.ErrRideNotFound
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &got, inserted, nil
}

func (r *ChatRoomRepo) Get(ctx context.Context, id uuid.UUID) (*models.ChatRoom, error) {
	return r.getBy(ctx, "ChatRoomRepo.Get", `SELECT `+roomColumns+` FROM chat_rooms WHERE id = $1;`, id)
}

func (r *ChatRoomRepo) GetByRide(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, error) {
	return r.getBy(ctx, "ChatRoomRepo.GetByRide", `SELECT `+roomColumns+` FROM chat_rooms WHERE ride_id = $1;`, rideID)
}

func (r *ChatRoomRepo) getBy(ctx context.Context, op, query string, id uuid.UUID) (*models.ChatRoom, error) {
	q := TxorDB(ctx, r.db)

	room, err := scanRoom(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrChatRoomNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return room, nil
}

// Deactivate clears is_active of the ride's room. The flag reports whether it was active.
func (r *ChatRoomRepo) Deactivate(ctx context.Context, rideID uuid.UUID) (*models.ChatRoom, bool, error) {
	const op = "ChatRoomRepo.Deactivate"
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE chat_rooms SET is_active = FALSE, updated_at = now()
		WHERE ride_id = $1 AND is_active
		RETURNING ` + roomColumns + `;`

	room, err := scanRoom(q.QueryRow(ctx, query, rideID))
	if err == nil {
		return room, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	room, err = r.GetByRide(ctx, rideID)
	if err != nil {
		return nil, false, err
	}
	return room, false, nil
}
