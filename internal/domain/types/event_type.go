package types

type RideEvent string

func (s RideEvent) String() string {
	return string(s)
}

const (
	EventRequestCreated   RideEvent = "REQUEST_CREATED"
	EventDriverMatched    RideEvent = "DRIVER_MATCHED"
	EventDriverArriving   RideEvent = "DRIVER_ARRIVING"
	EventRiderPickedUp    RideEvent = "RIDER_PICKED_UP"
	EventRideStarted      RideEvent = "RIDE_STARTED"
	EventRideCompleted    RideEvent = "RIDE_COMPLETED"
	EventRideCancelled    RideEvent = "RIDE_CANCELLED"
	EventFeedbackReceived RideEvent = "FEEDBACK_RECEIVED"
)

// EventForRideStatus maps a ride status to the event recorded when it is entered.
func EventForRideStatus(s RideStatus) RideEvent {
	switch s {
	case RideAccepted:
		return EventDriverMatched
	case RideArriving:
		return EventDriverArriving
	case RidePickup:
		return EventRiderPickedUp
	case RideEnroute:
		return EventRideStarted
	case RideCompleted:
		return EventRideCompleted
	default:
		return EventRideCancelled
	}
}

// SafetyEvent is published for the safety-monitoring layer
type SafetyEvent string

func (s SafetyEvent) String() string {
	return string(s)
}

const (
	SafetyAlertRaised    SafetyEvent = "alert"
	SafetyMessageFlagged SafetyEvent = "flagged"
)
