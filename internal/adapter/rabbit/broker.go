package rabbit

import (
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	"github.com/Temutjin2k/ride-coordinator/pkg/rabbit"
)

const (
	RideExchange = "ride_topic"

	QueueDriverDecisions = "driver_decisions"
	QueueRideProgress    = "ride_progress"
	QueueSafetyEvents    = "safety_events"

	KeyDriverDecision = "driver.decision"
	KeyRideProgress   = "ride.progress"
	KeySafetyPattern  = "safety.*"
)

const metricsService = "coordinator"

// Topology is everything the coordinator publishes to and consumes from.
func Topology() rabbit.Topology {
	return rabbit.Topology{
		Exchange: RideExchange,
		Bindings: []rabbit.Binding{
			{Queue: QueueDriverDecisions, Key: KeyDriverDecision},
			{Queue: QueueRideProgress, Key: KeyRideProgress},
			{Queue: QueueSafetyEvents, Key: KeySafetyPattern},
		},
	}
}

type RideBroker struct {
	client   *rabbit.RabbitMQ
	exchange string

	l logger.Logger
}

func NewRideBroker(client *rabbit.RabbitMQ, log logger.Logger) *RideBroker {
	return &RideBroker{
		client:   client,
		exchange: RideExchange,
		l:        log,
	}
}
