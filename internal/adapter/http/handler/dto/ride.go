package dto

import (
	"strings"
	"time"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/internal/service/ride"
	"github.com/Temutjin2k/ride-coordinator/pkg/validator"
)

type LocationReq struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type CreateRideRequestReq struct {
	Pickup        LocationReq `json:"pickup"`
	Dropoff       LocationReq `json:"dropoff"`
	VehicleType   string      `json:"vehicle_type"`
	Price         float64     `json:"price"`
	Mood          string      `json:"mood,omitempty"`
	IsScheduled   bool        `json:"is_scheduled"`
	ScheduledTime *time.Time  `json:"scheduled_time,omitempty"`
}

// Validate checks the shape of the body, business rules are checked by the service.
func (r *CreateRideRequestReq) Validate(v *validator.Validator) {
	v.Check(len(r.Pickup.Address) <= 255, "pickup.address", "must not be more than 255 characters long")
	v.Check(len(r.Dropoff.Address) <= 255, "dropoff.address", "must not be more than 255 characters long")
	v.Check(len(r.Mood) <= 50, "mood", "must not be more than 50 characters long")
	v.Check(validator.NotBlank(r.VehicleType), "vehicle_type", "must be provided")
}

func (r *CreateRideRequestReq) ToModel(riderID string) ride.CreateRequestInput {
	return ride.CreateRequestInput{
		RiderID:       riderID,
		Pickup:        models.Location(r.Pickup),
		Dropoff:       models.Location(r.Dropoff),
		VehicleType:   types.VehicleType(strings.ToLower(r.VehicleType)),
		Price:         r.Price,
		Mood:          r.Mood,
		IsScheduled:   r.IsScheduled,
		ScheduledTime: r.ScheduledTime,
	}
}

type AcceptRequestReq struct {
	AgreedPrice float64 `json:"agreed_price"`
}

func (r *AcceptRequestReq) Validate(v *validator.Validator) {
	v.Check(r.AgreedPrice > 0, "agreed_price", "must be greater than zero")
}

type AcceptRequestResponse struct {
	Ride     *models.Ride     `json:"ride"`
	ChatRoom *models.ChatRoom `json:"chat_room"`
}

type AdvanceRideReq struct {
	Status string `json:"status"`
}

// Validate accepts forward progression only, cancellation has its own endpoint.
func (r *AdvanceRideReq) Validate(v *validator.Validator) {
	v.Check(validator.NotBlank(r.Status), "status", "must be provided")
	if r.Status != "" {
		v.Check(validator.PermittedValue(types.RideStatus(r.Status), types.RideArriving, types.RidePickup, types.RideEnroute, types.RideCompleted),
			"status", "must be one of: arriving, pickup, enroute, completed")
	}
}

type FeedbackReq struct {
	Rating       int      `json:"rating"`
	SafetyRating int      `json:"safety_rating"`
	Text         string   `json:"text,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

func (r *FeedbackReq) Validate(v *validator.Validator) {
	v.Check(len(r.Tags) <= 10, "tags", "must not contain more than 10 tags")
	for _, tag := range r.Tags {
		if !validator.NotBlank(tag) || len(tag) > 32 {
			v.AddError("tags", "every tag must be 1 to 32 characters long")
			break
		}
	}
}

func (r *FeedbackReq) ToModel(in ride.FeedbackInput) ride.FeedbackInput {
	in.Rating = r.Rating
	in.SafetyRating = r.SafetyRating
	in.Text = strings.TrimSpace(r.Text)
	in.Tags = r.Tags
	return in
}

type EligibilityResponse struct {
	RequestID     string     `json:"request_id"`
	Eligible      bool       `json:"eligible"`
	IsScheduled   bool       `json:"is_scheduled"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	CheckedAt     time.Time  `json:"checked_at"`
}
