package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/metrics"
)

// PublishRideStatus sends a lifecycle transition to 'ride_topic' with key 'ride.status.{status}'.
// The key carries the ride status once a ride exists, the request status before.
func (r *RideBroker) PublishRideStatus(ctx context.Context, msg models.RideStatusMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_ride_status")

	status := msg.RequestStatus.String()
	if msg.RideStatus != "" {
		status = msg.RideStatus.String()
	}

	return r.publish(ctx, fmt.Sprintf("ride.status.%s", status), msg.CorrelationID, msg)
}

// PublishSafetyEvent sends a safety alert or flag to 'ride_topic' with key 'safety.{event}'.
func (r *RideBroker) PublishSafetyEvent(ctx context.Context, msg models.SafetyEventMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_safety_event")

	return r.publish(ctx, fmt.Sprintf("safety.%s", msg.Event), wrap.GetRequestID(ctx), msg)
}

func (r *RideBroker) publish(ctx context.Context, key, correlationID string, msg any) error {
	if err := r.client.EnsureConnection(ctx); err != nil {
		r.l.Error(ctx, "ensure connection failed", err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	err = retry(ctx, 5, time.Second, func() error {
		return r.client.Publish(ctx, r.exchange, key, amqp091.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp091.Persistent,
			CorrelationId: correlationID,
			Body:          body,
			Timestamp:     time.Now(),
		})
	})
	metrics.RecordRabbitMQPublish(metricsService, key, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish %s: %w", key, err))
	}

	r.l.Debug(ctx, "event published", "routing_key", key)
	return nil
}
