package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
)

type NotificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepo(db *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create appends an audit record. Records are never updated afterwards.
func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	const op = "NotificationRepo.Create"
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO notifications (id, user_id, title, body, type, payload, is_sent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at;`

	var payload any
	if len(n.Payload) > 0 {
		payload = n.Payload
	}

	if err := q.QueryRow(ctx, query, n.ID, n.UserID, n.Title, n.Body, n.Type, payload, n.Delivered).Scan(&n.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
