package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/metrics"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

const (
	defaultParallelism    = 4
	defaultAttemptTimeout = 5 * time.Second
)

type DispatcherConfig struct {
	Parallelism    int
	AttemptTimeout time.Duration
}

// Dispatcher fans a notification out to every active endpoint of a user.
type Dispatcher struct {
	registry      *Registry
	notifications NotificationRepo
	transport     Transport

	parallelism    int
	attemptTimeout time.Duration

	l     logger.Logger
	clock func() time.Time
}

func NewDispatcher(registry *Registry, notifications NotificationRepo, transport Transport, cfg DispatcherConfig, l logger.Logger) *Dispatcher {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = defaultParallelism
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}

	return &Dispatcher{
		registry:       registry,
		notifications:  notifications,
		transport:      transport,
		parallelism:    cfg.Parallelism,
		attemptTimeout: cfg.AttemptTimeout,
		l:              l,
		clock:          time.Now,
	}
}

// pushPayload is the body delivered to the browser service worker.
type pushPayload struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Type  types.NotificationType `json:"type"`
	Data  map[string]any         `json:"data,omitempty"`
}

// Dispatch delivers msg to all active subscriptions of msg.UserID.
// Delivery failures are reported in the result, only storage errors are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, msg models.NotificationMessage) (*models.DispatchResult, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "dispatch_notification"), msg.UserID)

	v := validator.New()
	v.Check(validator.NotBlank(msg.UserID), "user_id", "must be provided")
	v.Check(validator.NotBlank(msg.Title), "title", "must be provided")
	if !v.Valid() {
		return nil, types.NewValidationError(v.Errors)
	}
	if msg.Type == "" {
		msg.Type = types.NotificationGeneral
	}

	subs, err := d.registry.ActiveSubscriptions(ctx, msg.UserID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	payload, err := json.Marshal(pushPayload{
		Title: msg.Title,
		Body:  msg.Body,
		Type:  msg.Type,
		Data:  msg.Payload,
	})
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to encode push payload: %w", err))
	}

	results := d.deliverAll(ctx, subs, payload)

	res := &models.DispatchResult{Results: results}
	for _, r := range results {
		if r.Outcome == types.DeliveryDelivered {
			res.SuccessCount++
		}
	}
	res.Delivered = res.SuccessCount > 0

	record, err := d.newRecord(msg, res.Delivered)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if err := d.notifications.Create(ctx, record); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to record notification: %w", err))
	}
	res.NotificationID = record.ID

	d.l.Debug(ctx, "notification dispatched",
		"endpoints", len(subs),
		"success_count", res.SuccessCount,
		"notification_id", record.ID.String(),
	)
	return res, nil
}

// deliverAll attempts every endpoint concurrently. Results keep subscription order.
func (d *Dispatcher) deliverAll(ctx context.Context, subs []models.PushSubscription, payload []byte) []models.DeliveryResult {
	results := make([]models.DeliveryResult, len(subs))
	if len(subs) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(d.parallelism)

	for i, sub := range subs {
		g.Go(func() error {
			results[i] = d.deliverOne(ctx, sub, payload)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (d *Dispatcher) deliverOne(ctx context.Context, sub models.PushSubscription, payload []byte) models.DeliveryResult {
	attemptCtx, cancel := context.WithTimeout(ctx, d.attemptTimeout)
	defer cancel()

	start := time.Now()
	outcome, err := d.transport.Deliver(attemptCtx, sub, payload)
	if err != nil && outcome == types.DeliveryDelivered {
		outcome = types.DeliveryTransient
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && outcome != types.DeliveryDelivered {
		outcome = types.DeliveryTransient
		if err == nil {
			err = context.DeadlineExceeded
		}
	}
	if outcome == "" {
		outcome = types.DeliveryTransient
	}
	metrics.RecordPushDelivery(outcome.String(), time.Since(start))

	result := models.DeliveryResult{Endpoint: sub.Endpoint, Outcome: outcome}
	if err != nil {
		result.Error = err.Error()
	}

	switch outcome {
	case types.DeliveryGone:
		if err := d.registry.markGone(ctx, sub); err != nil {
			d.l.Warn(ctx, "failed to deactivate gone endpoint", "endpoint", sub.Endpoint, "error", err.Error())
		} else {
			d.l.Info(ctx, "push endpoint gone, deactivated", "endpoint", sub.Endpoint)
		}
	case types.DeliveryTransient:
		d.l.Warn(wrap.WithAction(ctx, types.ActionDeliveryFailed), "push delivery failed", "endpoint", sub.Endpoint, "error", result.Error)
	}

	return result
}

func (d *Dispatcher) newRecord(msg models.NotificationMessage, delivered bool) (*models.Notification, error) {
	var payload json.RawMessage
	if len(msg.Payload) > 0 {
		raw, err := json.Marshal(msg.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode notification payload: %w", err)
		}
		payload = raw
	}

	return &models.Notification{
		ID:        uuid.New(),
		UserID:    msg.UserID,
		Title:     msg.Title,
		Body:      msg.Body,
		Type:      msg.Type,
		Payload:   payload,
		Delivered: delivered,
		CreatedAt: d.clock(),
	}, nil
}

// Preferences exposes the recipient settings to message senders.
func (d *Dispatcher) Preferences(ctx context.Context, userID string) (*models.Preferences, error) {
	return d.registry.Preferences(ctx, userID)
}
