package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
)

type PreferencesRepo struct {
	db *pgxpool.Pool
}

func NewPreferencesRepo(db *pgxpool.Pool) *PreferencesRepo {
	return &PreferencesRepo{db: db}
}

// Get returns stored preferences, or defaults when the user never saved any.
func (r *PreferencesRepo) Get(ctx context.Context, userID string) (*models.Preferences, error) {
	const op = "PreferencesRepo.Get"
	q := TxorDB(ctx, r.db)

	p := models.Preferences{UserID: userID}
	err := q.QueryRow(ctx, `SELECT chat_muted, updated_at FROM notification_preferences WHERE user_id = $1;`, userID).Scan(&p.ChatMuted, &p.UpdatedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (r *PreferencesRepo) Upsert(ctx context.Context, p *models.Preferences) error {
	const op = "PreferencesRepo.Upsert"
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO notification_preferences (user_id, chat_muted)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET chat_muted = EXCLUDED.chat_muted, updated_at = now()
		RETURNING updated_at;`

	if err := q.QueryRow(ctx, query, p.UserID, p.ChatMuted).Scan(&p.UpdatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
