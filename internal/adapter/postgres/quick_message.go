package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
)

type QuickMessageRepo struct {
	db *pgxpool.Pool
}

func NewQuickMessageRepo(db *pgxpool.Pool) *QuickMessageRepo {
	return &QuickMessageRepo{db: db}
}

func (r *QuickMessageRepo) ListActive(ctx context.Context) ([]models.QuickMessage, error) {
	const op = "QuickMessageRepo.ListActive"
	q := TxorDB(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, category, message, is_active FROM quick_messages WHERE is_active ORDER BY category ASC, created_at ASC;`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.QuickMessage, 0)
	for rows.Next() {
		var m models.QuickMessage
		if err := rows.Scan(&m.ID, &m.Category, &m.Text, &m.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
