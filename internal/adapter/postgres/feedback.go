package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/postgres"
)

type FeedbackRepo struct {
	db *pgxpool.Pool
}

func NewFeedbackRepo(db *pgxpool.Pool) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

func (r *FeedbackRepo) Create(ctx context.Context, fb *models.Feedback) error {
	const op = "FeedbackRepo.Create"
	q := TxorDB(ctx, r.db)

	tags := fb.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO ride_feedback (id, ride_id, author_id, rating, safety_rating, feedback_text, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at;`

	err := q.QueryRow(ctx, query, fb.ID, fb.RideID, fb.AuthorID, fb.Rating, fb.SafetyRating, fb.Text, tags).Scan(&fb.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return types.ErrFeedbackExists
		}
		if postgres.IsForeignKeyViolation(err) {
			return types.ErrRideNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
