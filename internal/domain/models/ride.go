package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

type Location struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// RideRequest is a rider's intent to travel, before a driver is assigned.
type RideRequest struct {
	ID            uuid.UUID           `json:"id"`
	RiderID       string              `json:"rider_id"`
	Pickup        Location            `json:"pickup"`
	Dropoff       Location            `json:"dropoff"`
	VehicleType   types.VehicleType   `json:"vehicle_type"`
	Price         float64             `json:"price"`
	Mood          string              `json:"mood,omitempty"`
	IsScheduled   bool                `json:"is_scheduled"`
	ScheduledTime *time.Time          `json:"scheduled_time,omitempty"`
	Status        types.RequestStatus `json:"status"`
	CancelledBy   *string             `json:"cancelled_by,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// Ride is the matched trip, 1:1 with an accepted request.
type Ride struct {
	ID          uuid.UUID        `json:"id"`
	RequestID   uuid.UUID        `json:"request_id"`
	RiderID     string           `json:"rider_id"`
	DriverID    string           `json:"driver_id"`
	AgreedPrice float64          `json:"agreed_price"`
	Status      types.RideStatus `json:"status"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	CancelledAt *time.Time       `json:"cancelled_at,omitempty"`
	CancelledBy *string          `json:"cancelled_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// IsParticipant reports whether userID is the rider or the driver of the ride.
func (r *Ride) IsParticipant(userID string) bool {
	return userID != "" && (r.RiderID == userID || r.DriverID == userID)
}

// CounterParty returns the other participant, empty when userID is not a participant.
func (r *Ride) CounterParty(userID string) string {
	switch userID {
	case r.RiderID:
		return r.DriverID
	case r.DriverID:
		return r.RiderID
	}
	return ""
}

// StatusChange describes a compare-and-set update of a status column.
type StatusChange[S ~string] struct {
	From S
	To   S
	At   time.Time
	By   *string
}

// Feedback is a participant's rating of a completed ride.
type Feedback struct {
	ID           uuid.UUID `json:"id"`
	RideID       uuid.UUID `json:"ride_id"`
	AuthorID     string    `json:"author_id"`
	Rating       int       `json:"rating"`
	SafetyRating int       `json:"safety_rating"`
	Text         string    `json:"text,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RideEventRecord is a row of the lifecycle audit trail.
type RideEventRecord struct {
	RequestID uuid.UUID       `json:"request_id"`
	RideID    *uuid.UUID      `json:"ride_id,omitempty"`
	Type      types.RideEvent `json:"event_type"`
	Data      map[string]any  `json:"event_data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
