package ride

import (
	"context"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
)

var statusTitles = map[types.RideStatus][2]string{
	types.RideAccepted:  {"Driver matched", "A driver accepted your ride request"},
	types.RideArriving:  {"Driver is arriving", "Your driver is on the way to the pickup point"},
	types.RidePickup:    {"Driver has arrived", "Your driver is waiting at the pickup point"},
	types.RideEnroute:   {"Ride started", "Enjoy your trip"},
	types.RideCompleted: {"Ride completed", "Thank you for riding with us"},
	types.RideCancelled: {"Ride cancelled", "The ride has been cancelled"},
}

func rideNotification(userID string, ride *models.Ride, status types.RideStatus) models.NotificationMessage {
	text := statusTitles[status]
	return models.NotificationMessage{
		UserID: userID,
		Title:  text[0],
		Body:   text[1],
		Type:   types.NotificationRideUpdate,
		Payload: map[string]any{
			"type":      "ride_update",
			"rideId":    ride.ID.String(),
			"requestId": ride.RequestID.String(),
			"status":    status.String(),
		},
	}
}

// notify is best effort, the transition is already committed.
func (s *Service) notify(ctx context.Context, userID string, ride *models.Ride, status types.RideStatus) {
	if _, err := s.notifier.Dispatch(ctx, rideNotification(userID, ride, status)); err != nil {
		s.l.Warn(ctx, "failed to notify ride participant", "recipient", userID, "error", err.Error())
	}
}

func (s *Service) publishStatus(ctx context.Context, req *models.RideRequest, ride *models.Ride, event types.RideEvent, actorID string) {
	if s.publisher == nil {
		return
	}

	msg := models.RideStatusMessage{
		RequestID:     req.ID,
		RequestStatus: req.Status,
		Event:         event,
		ActorID:       actorID,
		Timestamp:     s.clock(),
		CorrelationID: wrap.GetRequestID(ctx),
	}
	if ride != nil {
		msg.RideID = &ride.ID
		msg.RideStatus = ride.Status
	}

	if err := s.publisher.PublishRideStatus(ctx, msg); err != nil {
		s.l.Warn(ctx, "failed to publish ride status", "event", event.String(), "error", err.Error())
	}
}
