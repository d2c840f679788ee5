package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/ride-coordinator/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

type SubscriptionRegistry interface {
	Register(ctx context.Context, userID, endpoint string, keys models.PushKeys) (*models.PushSubscription, error)
	Deregister(ctx context.Context, userID, endpoint string) (int64, error)
	Preferences(ctx context.Context, userID string) (*models.Preferences, error)
	SetPreferences(ctx context.Context, p models.Preferences) (*models.Preferences, error)
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, msg models.NotificationMessage) (*models.DispatchResult, error)
}

type Push struct {
	registry   SubscriptionRegistry
	dispatcher NotificationDispatcher
	publicKey  string
	responder
}

// NewPush serves subscriptions and notifications. publicKey is the VAPID
// application server key browsers need to subscribe.
func NewPush(registry SubscriptionRegistry, dispatcher NotificationDispatcher, publicKey string, l logger.Logger) *Push {
	return &Push{
		registry:   registry,
		dispatcher: dispatcher,
		publicKey:  publicKey,
		responder:  responder{l: l},
	}
}

// Subscribe godoc
// @Summary      Register a push subscription
// @Description  Re-registering an endpoint refreshes its keys and reactivates it.
// @Tags         push
// @Accept       json
// @Produce      json
// @Param        request body dto.SubscribeReq true "Browser PushSubscription"
// @Success      201 {object} models.PushSubscription
// @Failure      422 {object} map[string]interface{} "Validation error"
// @Security     BearerAuth
// @Router       /push/subscriptions [post]
func (h *Push) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_push_subscribe")

	var req dto.SubscribeReq
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	sub, err := h.registry.Register(ctx, caller(r).ID, req.Endpoint, req.ToModel())
	if err != nil {
		h.fail(ctx, w, "failed to register push subscription", err)
		return
	}

	h.write(ctx, w, http.StatusCreated, envelope{"subscription": sub})
}

func (h *Push) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_push_unsubscribe")

	var req dto.UnsubscribeReq
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	n, err := h.registry.Deregister(ctx, caller(r).ID, req.Endpoint)
	if err != nil {
		h.fail(ctx, w, "failed to deregister push subscription", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"deactivated": n})
}

// PublicKey returns the VAPID key for PushManager.subscribe.
func (h *Push) PublicKey(w http.ResponseWriter, r *http.Request) {
	h.write(r.Context(), w, http.StatusOK, envelope{"public_key": h.publicKey})
}

func (h *Push) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_get_preferences")

	p, err := h.registry.Preferences(ctx, caller(r).ID)
	if err != nil {
		h.fail(ctx, w, "failed to get preferences", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"preferences": p})
}

func (h *Push) SetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_set_preferences")

	var req dto.PreferencesReq
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	p, err := h.registry.SetPreferences(ctx, req.ToModel(caller(r).ID))
	if err != nil {
		h.fail(ctx, w, "failed to set preferences", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"preferences": p})
}

// Dispatch godoc
// @Summary      Deliver a notification to every active subscription of a user
// @Description  Delivery failures are reported per endpoint, the call itself succeeds.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body dto.DispatchReq true "Notification"
// @Success      200 {object} models.DispatchResult
// @Failure      422 {object} map[string]interface{} "Validation error"
// @Security     BearerAuth
// @Router       /notifications/dispatch [post]
func (h *Push) Dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_dispatch_notification")

	var req dto.DispatchReq
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	res, err := h.dispatcher.Dispatch(ctx, req.ToModel())
	if err != nil {
		h.fail(ctx, w, "failed to dispatch notification", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"result": res})
}
