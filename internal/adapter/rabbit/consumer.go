package rabbit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/metrics"
)

const reconnectDelay = 2 * time.Second

type DriverDecisionHandler func(ctx context.Context, msg models.DriverDecisionMessage) error

// ConsumeDriverDecisions feeds external matching decisions into handler until ctx is done.
func (r *RideBroker) ConsumeDriverDecisions(ctx context.Context, handler DriverDecisionHandler) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_consume_driver_decisions")

	return consume(ctx, r, QueueDriverDecisions, func(ctx context.Context, msg models.DriverDecisionMessage) error {
		return handler(wrap.WithRideRequestID(ctx, msg.RequestID.String()), msg)
	})
}

type RideProgressHandler func(ctx context.Context, msg models.RideProgressMessage) error

// ConsumeRideProgress feeds external ride progression triggers into handler until ctx is done.
func (r *RideBroker) ConsumeRideProgress(ctx context.Context, handler RideProgressHandler) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_consume_ride_progress")

	return consume(ctx, r, QueueRideProgress, func(ctx context.Context, msg models.RideProgressMessage) error {
		return handler(wrap.WithRideID(ctx, msg.RideID.String()), msg)
	})
}

// consume reads queue one delivery at a time so the order of a queue is kept.
// Recoverable failures are requeued, the rest are dropped.
func consume[T any](ctx context.Context, r *RideBroker, queue string, handler func(ctx context.Context, msg T) error) error {
	for {
		if ctx.Err() != nil {
			r.l.Debug(ctx, "consumer stopped by context", "queue", queue)
			return nil
		}

		if err := r.client.EnsureConnection(ctx); err != nil {
			r.l.Error(ctx, "ensure connection failed", err)
			sleep(ctx, reconnectDelay)
			continue
		}

		msgs, err := r.client.Consume(queue)
		if err != nil {
			r.l.Error(ctx, "consume failed", err, "queue", queue)
			sleep(ctx, reconnectDelay)
			continue
		}

		r.l.Info(ctx, "start consuming", "queue", queue)

		if done := drain(ctx, r, queue, msgs, handler); done {
			return nil
		}
		r.l.Warn(ctx, "message channel closed, reconnecting...", "queue", queue)
		sleep(ctx, reconnectDelay)
	}
}

// drain reports true when ctx is done, false when the delivery channel closed.
func drain[T any](ctx context.Context, r *RideBroker, queue string, msgs <-chan amqp091.Delivery, handler func(ctx context.Context, msg T) error) bool {
	for {
		select {
		case <-ctx.Done():
			r.l.Info(ctx, "consumer shutting down", "queue", queue)
			return true

		case d, ok := <-msgs:
			if !ok {
				return false
			}

			var msg T
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				r.l.Error(ctx, "failed to unmarshal message", err, "queue", queue)
				metrics.RecordRabbitMQConsume(metricsService, queue, err)
				_ = d.Nack(false, false)
				continue
			}

			msgCtx := wrap.WithRequestID(ctx, d.CorrelationId)
			err := handler(msgCtx, msg)
			metrics.RecordRabbitMQConsume(metricsService, queue, err)

			if err != nil {
				r.l.Error(wrap.ErrorCtx(msgCtx, err), "failed to handle message", err, "queue", queue)
				_ = d.Nack(false, isRecoverableError(err))
				continue
			}

			if err := d.Ack(false); err != nil {
				r.l.Error(msgCtx, "failed to ack message", err)
			}
		}
	}
}
