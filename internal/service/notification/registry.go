package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

// Registry owns push subscriptions and notification preferences.
type Registry struct {
	subs  SubscriptionRepo
	prefs PreferencesRepo
	l     logger.Logger
}

func NewRegistry(subs SubscriptionRepo, prefs PreferencesRepo, l logger.Logger) *Registry {
	return &Registry{
		subs:  subs,
		prefs: prefs,
		l:     l,
	}
}

// Register upserts the (userID, endpoint) subscription and reactivates it.
func (r *Registry) Register(ctx context.Context, userID, endpoint string, keys models.PushKeys) (*models.PushSubscription, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "register_push_subscription"), userID)

	v := validator.New()
	v.Check(validator.NotBlank(userID), "user_id", "must be provided")
	v.Check(validator.NotBlank(endpoint), "endpoint", "must be provided")
	if endpoint != "" {
		v.Check(strings.HasPrefix(endpoint, "https://") || strings.HasPrefix(endpoint, "http://"), "endpoint", "must be an http(s) url")
	}
	v.Check(validator.NotBlank(keys.P256dh), "keys.p256dh", "must be provided")
	v.Check(validator.NotBlank(keys.Auth), "keys.auth", "must be provided")
	if !v.Valid() {
		return nil, types.NewValidationError(v.Errors)
	}

	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		Keys:     keys,
	}
	if err := r.subs.Upsert(ctx, sub); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to upsert subscription: %w", err))
	}

	r.l.Info(ctx, "push subscription registered")
	return sub, nil
}

// Deregister deactivates one endpoint, or every endpoint of the user when endpoint is empty.
func (r *Registry) Deregister(ctx context.Context, userID, endpoint string) (int64, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "deregister_push_subscription"), userID)

	if !validator.NotBlank(userID) {
		return 0, types.NewValidationError(map[string]string{"user_id": "must be provided"})
	}

	n, err := r.subs.Deactivate(ctx, userID, endpoint)
	if err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("failed to deactivate subscriptions: %w", err))
	}

	r.l.Info(ctx, "push subscriptions deactivated", "count", n, "all", endpoint == "")
	return n, nil
}

// ActiveSubscriptions lists endpoints eligible for delivery.
func (r *Registry) ActiveSubscriptions(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	subs, err := r.subs.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}
	return subs, nil
}

// markGone deactivates an endpoint reported permanently gone by the transport.
func (r *Registry) markGone(ctx context.Context, sub models.PushSubscription) error {
	if _, err := r.subs.Deactivate(ctx, sub.UserID, sub.Endpoint); err != nil {
		return fmt.Errorf("failed to deactivate gone endpoint: %w", err)
	}
	return nil
}

func (r *Registry) Preferences(ctx context.Context, userID string) (*models.Preferences, error) {
	p, err := r.prefs.Get(ctx, userID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to get preferences: %w", err))
	}
	return p, nil
}

func (r *Registry) SetPreferences(ctx context.Context, p models.Preferences) (*models.Preferences, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "set_notification_preferences"), p.UserID)

	if !validator.NotBlank(p.UserID) {
		return nil, types.NewValidationError(map[string]string{"user_id": "must be provided"})
	}
	if err := r.prefs.Upsert(ctx, &p); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to save preferences: %w", err))
	}
	return &p, nil
}
