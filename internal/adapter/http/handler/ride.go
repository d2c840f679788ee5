package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/internal/service/ride"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

type RideService interface {
	CreateRequest(ctx context.Context, in ride.CreateRequestInput) (*models.RideRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*models.RideRequest, error)
	AcceptRequest(ctx context.Context, requestID uuid.UUID, driverID string, agreedPrice float64) (*models.Ride, *models.ChatRoom, error)
	CancelRequest(ctx context.Context, requestID uuid.UUID, actorID string) (*models.RideRequest, error)
	EligibleForMatching(req *models.RideRequest, now time.Time) bool
	Now() time.Time
	ListScheduled(ctx context.Context, riderID string, from time.Time) ([]models.RideRequest, error)
	ListHistory(ctx context.Context, riderID string) ([]models.RideRequest, error)

	GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	GetRideByRequest(ctx context.Context, requestID uuid.UUID) (*models.Ride, error)
	AdvanceRide(ctx context.Context, rideID uuid.UUID, next types.RideStatus) (*models.Ride, error)
	CancelRide(ctx context.Context, rideID uuid.UUID, actorID string) (*models.Ride, error)
	SubmitFeedback(ctx context.Context, in ride.FeedbackInput) (*models.Feedback, error)
}

type Ride struct {
	service RideService
	responder
}

func NewRide(service RideService, l logger.Logger) *Ride {
	return &Ride{
		service:   service,
		responder: responder{l: l},
	}
}

// CreateRequest godoc
// @Summary      Create a ride request
// @Description  Stores a pending ride request of the calling rider. Scheduled requests need a future scheduled_time.
// @Tags         ride-requests
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateRideRequestReq true "Ride request"
// @Success      201 {object} models.RideRequest
// @Failure      400 {object} map[string]interface{} "Bad request"
// @Failure      422 {object} map[string]interface{} "Validation error"
// @Security     BearerAuth
// @Router       /ride-requests [post]
func (h *Ride) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_create_ride_request")

	var req dto.CreateRideRequestReq
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, v.Errors)
		return
	}

	created, err := h.service.CreateRequest(ctx, req.ToModel(caller(r).ID))
	if err != nil {
		h.fail(ctx, w, "failed to create ride request", err)
		return
	}

	h.write(ctx, w, http.StatusCreated, envelope{"ride_request": created})
}

// GetRequest godoc
// @Summary      Get a ride request
// @Tags         ride-requests
// @Produce      json
// @Param        request_id path string true "Ride request ID"
// @Success      200 {object} models.RideRequest
// @Failure      404 {object} map[string]interface{} "Not found"
// @Security     BearerAuth
// @Router       /ride-requests/{request_id} [get]
func (h *Ride) GetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_get_ride_request")

	req, ok := h.visibleRequest(ctx, w, r)
	if !ok {
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"ride_request": req})
}

// AcceptRequest godoc
// @Summary      Accept a pending ride request
// @Description  Creates the ride and its chat room. Exactly one of concurrent acceptances wins.
// @Tags         ride-requests
// @Accept       json
// @Produce      json
// @Param        request_id path string true "Ride request ID"
// @Param        request body dto.AcceptRequestReq true "Agreed price"
// @Success      201 {object} dto.AcceptRequestResponse
// @Failure      404 {object} map[string]interface{} "Not found"
// @Failure      409 {object} map[string]interface{} "Request is no longer pending"
// @Security     BearerAuth
// @Router       /ride-requests/{request_id}/accept [post]
func (h *Ride) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_accept_ride_request")

	requestID, err := parseID(r, "request_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.AcceptRequestReq
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	ride, room, err := h.service.AcceptRequest(ctx, requestID, caller(r).ID, req.AgreedPrice)
	if err != nil {
		h.fail(ctx, w, "failed to accept ride request", err)
		return
	}

	h.write(ctx, w, http.StatusCreated, envelope{"ride": ride, "chat_room": room})
}

func (h *Ride) CancelRequest(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_cancel_ride_request")

	requestID, err := parseID(r, "request_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	req, err := h.service.CancelRequest(ctx, requestID, caller(r).ID)
	if err != nil {
		h.fail(ctx, w, "failed to cancel ride request", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"ride_request": req})
}

// Eligibility reports whether the request may be offered to drivers now.
func (h *Ride) Eligibility(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_ride_request_eligibility")

	req, ok := h.visibleRequest(ctx, w, r)
	if !ok {
		return
	}

	now := h.service.Now()
	h.write(ctx, w, http.StatusOK, envelope{"eligibility": dto.EligibilityResponse{
		RequestID:     req.ID.String(),
		Eligible:      h.service.EligibleForMatching(req, now),
		IsScheduled:   req.IsScheduled,
		ScheduledTime: req.ScheduledTime,
		CheckedAt:     now,
	}})
}

func (h *Ride) GetRideByRequest(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_get_ride_by_request")

	requestID, err := parseID(r, "request_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	ride, err := h.service.GetRideByRequest(ctx, requestID)
	if err != nil {
		h.fail(ctx, w, "failed to get ride of request", err)
		return
	}
	if !ride.IsParticipant(caller(r).ID) {
		h.fail(ctx, w, "ride requested by non participant", types.ErrRideNotFound)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"ride": ride})
}

// ListScheduled godoc
// @Summary      Upcoming scheduled rides
// @Tags         riders
// @Produce      json
// @Param        from query string false "RFC3339 lower bound, defaults to now"
// @Success      200 {array} models.RideRequest
// @Security     BearerAuth
// @Router       /riders/me/scheduled [get]
func (h *Ride) ListScheduled(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_list_scheduled")

	from := h.service.Now()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			failedValidationResponse(w, map[string]string{"from": "must be an RFC3339 timestamp"})
			return
		}
		from = parsed
	}

	list, err := h.service.ListScheduled(ctx, caller(r).ID, from)
	if err != nil {
		h.fail(ctx, w, "failed to list scheduled requests", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"ride_requests": list, "count": len(list)})
}

func (h *Ride) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_list_history")

	list, err := h.service.ListHistory(ctx, caller(r).ID)
	if err != nil {
		h.fail(ctx, w, "failed to list ride history", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"ride_requests": list, "count": len(list)})
}

func (h *Ride) GetRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_get_ride")

	ride, ok := h.participantRide(ctx, w, r)
	if !ok {
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"ride": ride})
}

// AdvanceRide godoc
// @Summary      Advance a ride to its next status
// @Description  matched -> arriving -> enroute -> completed. Skipping a status is rejected.
// @Tags         rides
// @Accept       json
// @Produce      json
// @Param        ride_id path string true "Ride ID"
// @Param        request body dto.AdvanceRideReq true "Next status"
// @Success      200 {object} models.Ride
// @Failure      409 {object} map[string]interface{} "Invalid transition"
// @Security     BearerAuth
// @Router       /rides/{ride_id}/status [post]
func (h *Ride) AdvanceRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_advance_ride")

	current, ok := h.participantRide(ctx, w, r)
	if !ok {
		return
	}
	if current.DriverID != caller(r).ID {
		errorResponse(w, http.StatusForbidden, "only the driver of the ride may advance it")
		return
	}

	var req dto.AdvanceRideReq
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

	ride, err := h.service.AdvanceRide(ctx, current.ID, types.RideStatus(req.Status))
	if err != nil {
		h.fail(ctx, w, "failed to advance ride", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"ride": ride})
}

func (h *Ride) CancelRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_cancel_ride")

	rideID, err := parseID(r, "ride_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	ride, err := h.service.CancelRide(ctx, rideID, caller(r).ID)
	if err != nil {
		h.fail(ctx, w, "failed to cancel ride", err)
		return
	}

	h.write(ctx, w, http.StatusOK, envelope{"ride": ride})
}

func (h *Ride) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_submit_feedback")

	rideID, err := parseID(r, "ride_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	var req dto.FeedbackReq
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

	fb, err := h.service.SubmitFeedback(ctx, req.ToModel(ride.FeedbackInput{RideID: rideID, AuthorID: caller(r).ID}))
	if err != nil {
		h.fail(ctx, w, "failed to submit feedback", err)
		return
	}

	h.write(ctx, w, http.StatusCreated, envelope{"feedback": fb})
}

// visibleRequest loads the request of the path. Riders see their own requests,
// drivers see any request so they can decide on it.
func (h *Ride) visibleRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.RideRequest, bool) {
	requestID, err := parseID(r, "request_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return nil, false
	}

	req, err := h.service.GetRequest(ctx, requestID)
	if err != nil {
		h.fail(ctx, w, "failed to get ride request", err)
		return nil, false
	}

	user := caller(r)
	if user.Role != types.RoleDriver && req.RiderID != user.ID {
		h.fail(ctx, w, "ride request requested by another rider", types.ErrRideRequestNotFound)
		return nil, false
	}
	return req, true
}

func (h *Ride) participantRide(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Ride, bool) {
	rideID, err := parseID(r, "ride_id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return nil, false
	}

	ride, err := h.service.GetRide(ctx, rideID)
	if err != nil {
		h.fail(ctx, w, "failed to get ride", err)
		return nil, false
	}
	if !ride.IsParticipant(caller(r).ID) {
		h.fail(ctx, w, "ride requested by non participant", types.ErrRideNotFound)
		return nil, false
	}
	return ride, true
}
