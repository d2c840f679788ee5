package ride

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/metrics"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

type CreateRequestInput struct {
	RiderID       string
	Pickup        models.Location
	Dropoff       models.Location
	VehicleType   types.VehicleType
	Price         float64
	Mood          string
	IsScheduled   bool
	ScheduledTime *time.Time
}

func (in CreateRequestInput) validate(v *validator.Validator, now time.Time) {
	v.Check(validator.NotBlank(in.RiderID), "rider_id", "must be provided")
	v.Check(in.Price > 0, "price", "must be greater than zero")
	v.Check(validator.NotBlank(in.Pickup.Address), "pickup.address", "must be provided")
	v.Check(validator.NotBlank(in.Dropoff.Address), "dropoff.address", "must be provided")
	v.Check(in.VehicleType.Valid(), "vehicle_type", "must be one of: bike, rickshaw, car")

	checkCoordinates(v, "pickup", in.Pickup)
	checkCoordinates(v, "dropoff", in.Dropoff)

	switch {
	case in.IsScheduled && in.ScheduledTime == nil:
		v.AddError("scheduled_time", "must be provided for a scheduled ride")
	case in.IsScheduled && !in.ScheduledTime.After(now):
		v.AddError("scheduled_time", "must be in the future")
	case !in.IsScheduled && in.ScheduledTime != nil:
		v.AddError("scheduled_time", "must be empty for an immediate ride")
	}
}

func checkCoordinates(v *validator.Validator, prefix string, loc models.Location) {
	if loc.Latitude != nil {
		v.Check(*loc.Latitude >= -90 && *loc.Latitude <= 90, prefix+".latitude", "must be between -90 and 90")
	}
	if loc.Longitude != nil {
		v.Check(*loc.Longitude >= -180 && *loc.Longitude <= 180, prefix+".longitude", "must be between -180 and 180")
	}
}

// CreateRequest stores a new pending ride request.
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.RideRequest, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "create_ride_request"), in.RiderID)

	v := validator.New()
	in.validate(v, s.clock())
	if !v.Valid() {
		return nil, types.NewValidationError(v.Errors)
	}

	req := &models.RideRequest{
		ID:            uuid.New(),
		RiderID:       in.RiderID,
		Pickup:        in.Pickup,
		Dropoff:       in.Dropoff,
		VehicleType:   in.VehicleType,
		Price:         in.Price,
		Mood:          in.Mood,
		IsScheduled:   in.IsScheduled,
		ScheduledTime: in.ScheduledTime,
		Status:        types.RequestPending,
	}
	ctx = wrap.WithRideRequestID(ctx, req.ID.String())

	fn := func(ctx context.Context) error {
		if err := s.requests.Create(ctx, req); err != nil {
			return fmt.Errorf("failed to create ride request: %w", err)
		}
		return s.recordEvent(ctx, req.ID, nil, types.EventRequestCreated, map[string]any{
			"vehicle_type": req.VehicleType,
			"price":        req.Price,
			"is_scheduled": req.IsScheduled,
		})
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	metrics.RecordTransition("request", req.Status.String())

	s.publishStatus(ctx, req, nil, types.EventRequestCreated, req.RiderID)

	s.l.Info(ctx, "ride request created", "scheduled", req.IsScheduled)
	return req, nil
}

// AcceptRequest matches a pending request with a driver, creating the ride and its chat room.
func (s *Service) AcceptRequest(ctx context.Context, requestID uuid.UUID, driverID string, agreedPrice float64) (*models.Ride, *models.ChatRoom, error) {
	ctx = wrap.WithRideRequestID(wrap.WithUserID(wrap.WithAction(ctx, "accept_ride_request"), driverID), requestID.String())

	v := validator.New()
	v.Check(validator.NotBlank(driverID), "driver_id", "must be provided")
	v.Check(agreedPrice > 0, "agreed_price", "must be greater than zero")
	if !v.Valid() {
		return nil, nil, types.NewValidationError(v.Errors)
	}

	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return nil, nil, wrap.Error(ctx, err)
	}
	if req.Status != types.RequestPending {
		return nil, nil, wrap.Error(ctx, types.ErrRequestNotPending)
	}
	if req.RiderID == driverID {
		return nil, nil, types.NewValidationError(map[string]string{"driver_id": "must differ from the rider"})
	}

	var (
		ride *models.Ride
		room *models.ChatRoom
	)

	fn := func(ctx context.Context) error {
		// the compare-and-set decides the winner among concurrent acceptors
		matched, err := s.requests.UpdateStatus(ctx, req.ID, models.StatusChange[types.RequestStatus]{
			From: types.RequestPending,
			To:   types.RequestMatched,
			At:   s.clock(),
		})
		if err != nil {
			return err
		}
		req = matched

		ride = &models.Ride{
			ID:          uuid.New(),
			RequestID:   req.ID,
			RiderID:     req.RiderID,
			DriverID:    driverID,
			AgreedPrice: agreedPrice,
			Status:      types.RideAccepted,
		}
		if err := s.rides.Create(ctx, ride); err != nil {
			return fmt.Errorf("failed to create ride: %w", err)
		}

		room, err = s.rooms.GetOrCreateRoom(ctx, ride.ID, ride.RiderID, ride.DriverID)
		if err != nil {
			return err
		}

		return s.recordEvent(ctx, req.ID, &ride.ID, types.EventDriverMatched, map[string]any{
			"driver_id":    driverID,
			"agreed_price": agreedPrice,
			"chat_room_id": room.ID.String(),
		})
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return nil, nil, wrap.Error(ctx, err)
	}
	metrics.RecordTransition("request", req.Status.String())
	metrics.RecordTransition("ride", ride.Status.String())

	ctx = wrap.WithRideID(ctx, ride.ID.String())
	s.notify(ctx, req.RiderID, ride, ride.Status)
	s.publishStatus(ctx, req, ride, types.EventDriverMatched, driverID)

	s.l.Info(ctx, "ride request accepted", "chat_room_id", room.ID.String())
	return ride, room, nil
}

// CancelRequest cancels a request on behalf of its rider or matched driver.
func (s *Service) CancelRequest(ctx context.Context, requestID uuid.UUID, actorID string) (*models.RideRequest, error) {
	ctx = wrap.WithRideRequestID(wrap.WithUserID(wrap.WithAction(ctx, "cancel_ride_request"), actorID), requestID.String())

	if !validator.NotBlank(actorID) {
		return nil, types.NewValidationError(map[string]string{"actor_id": "must be provided"})
	}

	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	ride, err := s.rides.GetByRequest(ctx, requestID)
	if err != nil && !errors.Is(err, types.ErrRideNotFound) {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to get ride of request: %w", err))
	}

	if actorID != req.RiderID && (ride == nil || actorID != ride.DriverID) {
		return nil, wrap.Error(ctx, types.ErrNotParticipant)
	}
	if req.Status.IsTerminal() {
		return nil, wrap.Error(ctx, types.ErrAlreadyTerminal)
	}

	req, _, err = s.cancel(ctx, req, ride, &actorID)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ListScheduled returns the rider's upcoming scheduled requests from the given time.
func (s *Service) ListScheduled(ctx context.Context, riderID string, from time.Time) ([]models.RideRequest, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "list_scheduled_requests"), riderID)

	if !validator.NotBlank(riderID) {
		return nil, types.NewValidationError(map[string]string{"rider_id": "must be provided"})
	}

	list, err := s.requests.ListScheduled(ctx, riderID, from)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list scheduled requests: %w", err))
	}
	return list, nil
}

// ListHistory returns every request of the rider, newest first.
func (s *Service) ListHistory(ctx context.Context, riderID string) ([]models.RideRequest, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "list_ride_history"), riderID)

	list, err := s.requests.ListByRider(ctx, riderID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list ride history: %w", err))
	}
	return list, nil
}
