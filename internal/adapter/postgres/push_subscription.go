package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
)

type PushSubscriptionRepo struct {
	db *pgxpool.Pool
}

func NewPushSubscriptionRepo(db *pgxpool.Pool) *PushSubscriptionRepo {
	return &PushSubscriptionRepo{db: db}
}

// Upsert stores the subscription keyed by (user_id, endpoint) and reactivates it.
func (r *PushSubscriptionRepo) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	const op = "PushSubscriptionRepo.Upsert"
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (user_id, endpoint) DO UPDATE
		SET p256dh = EXCLUDED.p256dh,
		    auth = EXCLUDED.auth,
		    is_active = TRUE,
		    updated_at = now()
		RETURNING is_active, created_at, updated_at;`

	err := q.QueryRow(ctx, query, sub.UserID, sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth).Scan(&sub.IsActive, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Deactivate turns off one endpoint, or every endpoint of the user when endpoint is empty.
func (r *PushSubscriptionRepo) Deactivate(ctx context.Context, userID, endpoint string) (int64, error) {
	const op = "PushSubscriptionRepo.Deactivate"
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE push_subscriptions SET is_active = FALSE, updated_at = now()
		WHERE user_id = $1 AND is_active AND ($2 = '' OR endpoint = $2);`

	tag, err := q.Exec(ctx, query, userID, endpoint)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

func (r *PushSubscriptionRepo) ListActive(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	const op = "PushSubscriptionRepo.ListActive"
	q := TxorDB(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT user_id, endpoint, p256dh, auth, is_active, created_at, updated_at
		FROM push_subscriptions
		WHERE user_id = $1 AND is_active
		ORDER BY created_at ASC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	subs := make([]models.PushSubscription, 0)
	for rows.Next() {
		var s models.PushSubscription
		if err := rows.Scan(&s.UserID, &s.Endpoint, &s.Keys.P256dh, &s.Keys.Auth, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}
