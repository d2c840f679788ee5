package types

// RequestStatus is the status of a ride request.
// pending -> matched -> active -> completed, cancelled from any non-terminal state.
type RequestStatus string

func (s RequestStatus) String() string {
	return string(s)
}

const (
	RequestPending   RequestStatus = "pending"
	RequestMatched   RequestStatus = "matched"
	RequestActive    RequestStatus = "active"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

var requestSequence = []RequestStatus{RequestPending, RequestMatched, RequestActive, RequestCompleted}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestCompleted || s == RequestCancelled
}

// CanTransition reports whether next is a legal move from s.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	return canTransition(requestSequence, s, next, RequestCancelled)
}

// RideStatus is the status of a matched ride.
// accepted -> arriving -> pickup -> enroute -> completed, cancelled from any non-terminal state.
type RideStatus string

func (s RideStatus) String() string {
	return string(s)
}

const (
	RideAccepted  RideStatus = "accepted"
	RideArriving  RideStatus = "arriving"
	RidePickup    RideStatus = "pickup"
	RideEnroute   RideStatus = "enroute"
	RideCompleted RideStatus = "completed"
	RideCancelled RideStatus = "cancelled"
)

var rideSequence = []RideStatus{RideAccepted, RideArriving, RidePickup, RideEnroute, RideCompleted}

func (s RideStatus) IsTerminal() bool {
	return s == RideCompleted || s == RideCancelled
}

func (s RideStatus) Valid() bool {
	return s == RideCancelled || indexOf(rideSequence, s) >= 0
}

// CanTransition reports whether next is a legal move from s.
func (s RideStatus) CanTransition(next RideStatus) bool {
	return canTransition(rideSequence, s, next, RideCancelled)
}

// Next returns the immediate successor of s in the ride sequence.
func (s RideStatus) Next() (RideStatus, bool) {
	i := indexOf(rideSequence, s)
	if i < 0 || i == len(rideSequence)-1 {
		return "", false
	}
	return rideSequence[i+1], true
}

func canTransition[S comparable](seq []S, from, to, cancelled S) bool {
	if from == cancelled {
		return false
	}
	i := indexOf(seq, from)
	if i < 0 || i == len(seq)-1 {
		return false
	}
	return to == cancelled || seq[i+1] == to
}

func indexOf[S comparable](seq []S, s S) int {
	for i, v := range seq {
		if v == s {
			return i
		}
	}
	return -1
}
