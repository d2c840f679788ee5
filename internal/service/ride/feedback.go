package ride

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

type FeedbackInput struct {
	RideID       uuid.UUID
	AuthorID     string
	Rating       int
	SafetyRating int
	Text         string
	Tags         []string
}

// SubmitFeedback stores one rating per participant of a completed ride.
func (s *Service) SubmitFeedback(ctx context.Context, in FeedbackInput) (*models.Feedback, error) {
	ctx = wrap.WithRideID(wrap.WithUserID(wrap.WithAction(ctx, "submit_ride_feedback"), in.AuthorID), in.RideID.String())

	v := validator.New()
	v.Check(validator.NotBlank(in.AuthorID), "author_id", "must be provided")
	v.Check(in.Rating >= 1 && in.Rating <= 5, "rating", "must be between 1 and 5")
	v.Check(in.SafetyRating >= 1 && in.SafetyRating <= 5, "safety_rating", "must be between 1 and 5")
	v.Check(len(in.Text) <= 1000, "text", "must not be more than 1000 bytes long")
	if !v.Valid() {
		return nil, types.NewValidationError(v.Errors)
	}

	ride, err := s.rides.Get(ctx, in.RideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !ride.IsParticipant(in.AuthorID) {
		return nil, wrap.Error(ctx, types.ErrNotParticipant)
	}
	if ride.Status != types.RideCompleted {
		return nil, wrap.Error(ctx, types.ErrRideNotCompleted)
	}

	fb := &models.Feedback{
		ID:           uuid.New(),
		RideID:       ride.ID,
		AuthorID:     in.AuthorID,
		Rating:       in.Rating,
		SafetyRating: in.SafetyRating,
		Text:         in.Text,
		Tags:         in.Tags,
	}

	fn := func(ctx context.Context) error {
		if err := s.feedback.Create(ctx, fb); err != nil {
			if errors.Is(err, types.ErrFeedbackExists) {
				return err
			}
			return fmt.Errorf("failed to store feedback: %w", err)
		}
		return s.recordEvent(ctx, ride.RequestID, &ride.ID, types.EventFeedbackReceived, map[string]any{
			"author_id":     fb.AuthorID,
			"rating":        fb.Rating,
			"safety_rating": fb.SafetyRating,
		})
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "ride feedback received", "rating", fb.Rating)
	return fb, nil
}
