package ride

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/metrics"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

// AdvanceRide moves the ride to its immediate successor status.
// Advancing to cancelled is a system cancellation without an actor.
func (s *Service) AdvanceRide(ctx context.Context, rideID uuid.UUID, next types.RideStatus) (*models.Ride, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "advance_ride"), rideID.String())

	if !next.Valid() {
		return nil, types.NewValidationError(map[string]string{"status": "unknown ride status"})
	}

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if ride.Status.IsTerminal() {
		return nil, wrap.Error(ctx, types.ErrAlreadyTerminal)
	}
	if !ride.Status.CanTransition(next) {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %s -> %s", types.ErrSkippedTransition, ride.Status, next))
	}

	req, err := s.requests.Get(ctx, ride.RequestID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	ctx = wrap.WithRideRequestID(ctx, req.ID.String())

	if next == types.RideCancelled {
		_, ride, err = s.cancel(ctx, req, ride, nil)
		if err != nil {
			return nil, err
		}
		return ride, nil
	}

	from := ride.Status
	var closed *models.ChatRoom
	fn := func(ctx context.Context) error {
		updated, err := s.rides.UpdateStatus(ctx, ride.ID, models.StatusChange[types.RideStatus]{
			From: from,
			To:   next,
			At:   s.clock(),
		})
		if err != nil {
			return err
		}
		ride = updated

		if reqNext, ok := coupledRequestStatus(next); ok {
			updatedReq, err := s.requests.UpdateStatus(ctx, req.ID, models.StatusChange[types.RequestStatus]{
				From: req.Status,
				To:   reqNext,
				At:   s.clock(),
			})
			if err != nil {
				return err
			}
			req = updatedReq
		}

		if err := s.recordEvent(ctx, req.ID, &ride.ID, types.EventForRideStatus(next), map[string]any{
			"from": from,
			"to":   next,
		}); err != nil {
			return err
		}

		if next == types.RideCompleted {
			closed, err = s.closeRoom(ctx, ride.ID)
			return err
		}
		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	metrics.RecordTransition("ride", ride.Status.String())
	s.announceClosed(ctx, closed)

	s.notify(ctx, ride.RiderID, ride, ride.Status)
	s.publishStatus(ctx, req, ride, types.EventForRideStatus(next), ride.DriverID)

	s.l.Info(ctx, "ride advanced", "from", from.String(), "to", next.String())
	return ride, nil
}

// coupledRequestStatus is the request status implied by a ride entering next.
func coupledRequestStatus(next types.RideStatus) (types.RequestStatus, bool) {
	switch next {
	case types.RideArriving:
		return types.RequestActive, true
	case types.RideCompleted:
		return types.RequestCompleted, true
	}
	return "", false
}

// CancelRide cancels a ride on behalf of one of its participants.
func (s *Service) CancelRide(ctx context.Context, rideID uuid.UUID, actorID string) (*models.Ride, error) {
	ctx = wrap.WithRideID(wrap.WithUserID(wrap.WithAction(ctx, "cancel_ride"), actorID), rideID.String())

	if !validator.NotBlank(actorID) {
		return nil, types.NewValidationError(map[string]string{"actor_id": "must be provided"})
	}

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !ride.IsParticipant(actorID) {
		return nil, wrap.Error(ctx, types.ErrNotParticipant)
	}
	if ride.Status.IsTerminal() {
		return nil, wrap.Error(ctx, types.ErrAlreadyTerminal)
	}

	req, err := s.requests.Get(ctx, ride.RequestID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	_, ride, err = s.cancel(ctx, req, ride, &actorID)
	if err != nil {
		return nil, err
	}
	return ride, nil
}

// cancel moves every non-terminal entity of the pair to cancelled and closes the room.
// by is nil for a system cancellation.
func (s *Service) cancel(ctx context.Context, req *models.RideRequest, ride *models.Ride, by *string) (*models.RideRequest, *models.Ride, error) {
	var closed *models.ChatRoom
	fn := func(ctx context.Context) error {
		now := s.clock()

		if !req.Status.IsTerminal() {
			updated, err := s.requests.UpdateStatus(ctx, req.ID, models.StatusChange[types.RequestStatus]{
				From: req.Status,
				To:   types.RequestCancelled,
				At:   now,
				By:   by,
			})
			if err != nil {
				return err
			}
			req = updated
		}

		var rideID *uuid.UUID
		if ride != nil {
			rideID = &ride.ID
			if !ride.Status.IsTerminal() {
				updated, err := s.rides.UpdateStatus(ctx, ride.ID, models.StatusChange[types.RideStatus]{
					From: ride.Status,
					To:   types.RideCancelled,
					At:   now,
					By:   by,
				})
				if err != nil {
					return err
				}
				ride = updated
			}
		}

		data := map[string]any{"cancelled_by": "system"}
		if by != nil {
			data["cancelled_by"] = *by
		}
		if err := s.recordEvent(ctx, req.ID, rideID, types.EventRideCancelled, data); err != nil {
			return err
		}

		if ride != nil {
			var err error
			closed, err = s.closeRoom(ctx, ride.ID)
			return err
		}
		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return nil, nil, wrap.Error(ctx, err)
	}
	metrics.RecordTransition("request", req.Status.String())
	s.announceClosed(ctx, closed)

	actor := ""
	if by != nil {
		actor = *by
	}

	if ride != nil {
		metrics.RecordTransition("ride", ride.Status.String())
		ctx = wrap.WithRideID(ctx, ride.ID.String())

		if by == nil {
			s.notify(ctx, ride.RiderID, ride, types.RideCancelled)
			s.notify(ctx, ride.DriverID, ride, types.RideCancelled)
		} else if other := ride.CounterParty(actor); other != "" {
			s.notify(ctx, other, ride, types.RideCancelled)
		}
	}

	s.publishStatus(ctx, req, ride, types.EventRideCancelled, actor)

	s.l.Info(ctx, "ride cancelled", "cancelled_by", actor)
	return req, ride, nil
}
