package ride

import (
	"time"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

// Eligible reports whether req may be offered to drivers at now.
// A scheduled request opens for matching window before its departure.
func Eligible(req *models.RideRequest, now time.Time, window time.Duration) bool {
	if req == nil || req.Status != types.RequestPending {
		return false
	}
	if !req.IsScheduled || req.ScheduledTime == nil {
		return true
	}
	return !now.Before(req.ScheduledTime.Add(-window))
}

// EligibleForMatching applies Eligible with the configured window.
func (s *Service) EligibleForMatching(req *models.RideRequest, now time.Time) bool {
	return Eligible(req, now, s.window)
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.clock()
}
