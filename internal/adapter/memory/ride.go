package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

type RideRequestRepo struct{ s *Store }

func NewRideRequestRepo(s *Store) *RideRequestRepo { return &RideRequestRepo{s: s} }

func (r *RideRequestRepo) Create(ctx context.Context, req *models.RideRequest) error {
	defer r.s.lock(ctx)()

	now := r.s.now()
	req.CreatedAt, req.UpdatedAt = now, now
	r.s.requests[req.ID] = *req
	return nil
}

func (r *RideRequestRepo) Get(ctx context.Context, id uuid.UUID) (*models.RideRequest, error) {
	defer r.s.rlock(ctx)()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, types.ErrRideRequestNotFound
	}
	return &req, nil
}

func (r *RideRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, change models.StatusChange[types.RequestStatus]) (*models.RideRequest, error) {
	defer r.s.lock(ctx)()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, types.ErrRideRequestNotFound
	}
	if req.Status != change.From {
		return nil, types.ErrStatusChanged
	}

	req.Status = change.To
	req.UpdatedAt = change.At
	if change.By != nil {
		by := *change.By
		req.CancelledBy = &by
	}
	r.s.requests[id] = req
	return &req, nil
}

func (r *RideRequestRepo) ListScheduled(ctx context.Context, riderID string, from time.Time) ([]models.RideRequest, error) {
	defer r.s.rlock(ctx)()

	out := make([]models.RideRequest, 0)
	for _, req := range r.s.requests {
		if req.RiderID != riderID || !req.IsScheduled || req.Status.IsTerminal() || req.ScheduledTime == nil {
			continue
		}
		if req.ScheduledTime.Before(from) {
			continue
		}
		out = append(out, req)
	}

	slices.SortFunc(out, func(a, b models.RideRequest) int {
		if c := a.ScheduledTime.Compare(*b.ScheduledTime); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (r *RideRequestRepo) ListByRider(ctx context.Context, riderID string) ([]models.RideRequest, error) {
	defer r.s.rlock(ctx)()

	out := make([]models.RideRequest, 0)
	for _, req := range r.s.requests {
		if req.RiderID == riderID {
			out = append(out, req)
		}
	}

	slices.SortFunc(out, func(a, b models.RideRequest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

type RideRepo struct{ s *Store }

func NewRideRepo(s *Store) *RideRepo { return &RideRepo{s: s} }

func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.requests[ride.RequestID]; !ok {
		return types.ErrRideRequestNotFound
	}
	if _, exists := r.s.ridesBy[ride.RequestID]; exists {
		return types.ErrRideAlreadyAccepted
	}

	now := r.s.now()
	ride.CreatedAt, ride.UpdatedAt = now, now
	r.s.rides[ride.ID] = *ride
	r.s.ridesBy[ride.RequestID] = ride.ID
	return nil
}

func (r *RideRepo) Get(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	defer r.s.rlock(ctx)()

	ride, ok := r.s.rides[id]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	return &ride, nil
}

func (r *RideRepo) GetByRequest(ctx context.Context, requestID uuid.UUID) (*models.Ride, error) {
	defer r.s.rlock(ctx)()

	id, ok := r.s.ridesBy[requestID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	ride := r.s.rides[id]
	return &ride, nil
}

func (r *RideRepo) UpdateStatus(ctx context.Context, id uuid.UUID, change models.StatusChange[types.RideStatus]) (*models.Ride, error) {
	defer r.s.lock(ctx)()

	ride, ok := r.s.rides[id]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	if ride.Status != change.From {
		return nil, types.ErrStatusChanged
	}

	at := change.At
	ride.Status = change.To
	ride.UpdatedAt = at
	switch change.To {
	case types.RideEnroute:
		ride.StartedAt = &at
	case types.RideCompleted:
		ride.CompletedAt = &at
	case types.RideCancelled:
		ride.CancelledAt = &at
	}
	if change.By != nil {
		by := *change.By
		ride.CancelledBy = &by
	}
	r.s.rides[id] = ride
	return &ride, nil
}

type RideEventRepo struct{ s *Store }

func NewRideEventRepo(s *Store) *RideEventRepo { return &RideEventRepo{s: s} }

func (r *RideEventRepo) CreateEvent(ctx context.Context, ev models.RideEventRecord) error {
	defer r.s.lock(ctx)()

	ev.CreatedAt = r.s.now()
	r.s.events = append(r.s.events, ev)
	return nil
}

type FeedbackRepo struct{ s *Store }

func NewFeedbackRepo(s *Store) *FeedbackRepo { return &FeedbackRepo{s: s} }

func (r *FeedbackRepo) Create(ctx context.Context, fb *models.Feedback) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.rides[fb.RideID]; !ok {
		return types.ErrRideNotFound
	}
	key := feedbackKey{rideID: fb.RideID, authorID: fb.AuthorID}
	if _, exists := r.s.feedback[key]; exists {
		return types.ErrFeedbackExists
	}

	fb.CreatedAt = r.s.now()
	r.s.feedback[key] = *fb
	return nil
}
