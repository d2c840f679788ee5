package types

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRideStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to RideStatus
		want     bool
	}{
		{RideAccepted, RideArriving, true},
		{RideArriving, RidePickup, true},
		{RidePickup, RideEnroute, true},
		{RideEnroute, RideCompleted, true},
		{RideAccepted, RideCompleted, false},
		{RideAccepted, RidePickup, false},
		{RidePickup, RideArriving, false},
		{RideAccepted, RideAccepted, false},
		{RideEnroute, RideCancelled, true},
		{RideAccepted, RideCancelled, true},
		{RideCompleted, RideCancelled, false},
		{RideCancelled, RideCancelled, false},
		{RideCancelled, RideAccepted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestRequestStatus_CanTransition(t *testing.T) {
	assert.True(t, RequestPending.CanTransition(RequestMatched))
	assert.True(t, RequestMatched.CanTransition(RequestActive))
	assert.True(t, RequestActive.CanTransition(RequestCompleted))
	assert.True(t, RequestPending.CanTransition(RequestCancelled))
	assert.False(t, RequestPending.CanTransition(RequestActive))
	assert.False(t, RequestCompleted.CanTransition(RequestCancelled))
	assert.False(t, RequestCancelled.CanTransition(RequestPending))
}

// Property: applying random candidate transitions, the status only moves one
// step forward or to cancelled, and nothing moves once terminal.
func TestRideStatus_RandomWalkNeverSkips(t *testing.T) {
	all := []RideStatus{RideAccepted, RideArriving, RidePickup, RideEnroute, RideCompleted, RideCancelled}
	rng := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		cur := RideAccepted
		for range 20 {
			next := all[rng.IntN(len(all))]
			if !cur.CanTransition(next) {
				continue
			}

			if next != RideCancelled {
				succ, ok := cur.Next()
				assert.True(t, ok)
				assert.Equal(t, succ, next)
			}
			assert.False(t, cur.IsTerminal())
			cur = next
		}
	}
}

func TestMessageType(t *testing.T) {
	assert.True(t, MessageSafetyAlert.Valid())
	assert.False(t, MessageType("voice").Valid())
	assert.False(t, MessageSafetyAlert.Suppressible())
	assert.True(t, MessageText.Suppressible())
}
