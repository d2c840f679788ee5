package ride

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/ride-coordinator/internal/adapter/memory"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/internal/service/chat"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.NotificationMessage
}

func (n *fakeNotifier) Dispatch(_ context.Context, msg models.NotificationMessage) (*models.DispatchResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return &models.DispatchResult{}, nil
}

func (n *fakeNotifier) Preferences(_ context.Context, userID string) (*models.Preferences, error) {
	return &models.Preferences{UserID: userID}, nil
}

func (n *fakeNotifier) recipients() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, m := range n.sent {
		out = append(out, m.UserID)
	}
	return out
}

func (n *fakeNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.RideStatusMessage
}

func (p *fakePublisher) PublishRideStatus(_ context.Context, msg models.RideStatusMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, msg)
	return nil
}

type recordingRelay struct {
	mu     sync.Mutex
	events []models.RelayEvent
}

func (r *recordingRelay) Publish(_ context.Context, _ uuid.UUID, event models.RelayEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingRelay) closed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == models.RelayRoomClosed {
			n++
		}
	}
	return n
}

// lostCancelRideRepo fails every cancellation CAS as if another writer got there first.
type lostCancelRideRepo struct {
	RideRepo
}

func (r lostCancelRideRepo) UpdateStatus(ctx context.Context, id uuid.UUID, change models.StatusChange[types.RideStatus]) (*models.Ride, error) {
	if change.To == types.RideCancelled {
		return nil, types.ErrStatusChanged
	}
	return r.RideRepo.UpdateStatus(ctx, id, change)
}

type fixture struct {
	svc       *Service
	chat      *chat.Service
	store     *memory.Store
	relay     *recordingRelay
	notifier  *fakeNotifier
	publisher *fakePublisher
	now       time.Time
}

const (
	riderID  = "rider-1"
	driverID = "driver-1"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	l := logger.Discard()
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	relay := &recordingRelay{}

	chatSvc := chat.NewService(
		memory.NewChatRoomRepo(store),
		memory.NewChatMessageRepo(store),
		memory.NewQuickMessageRepo(store),
		relay,
		notifier,
		nil,
		chat.Config{},
		l,
	)

	svc := NewService(
		memory.NewRideRequestRepo(store),
		memory.NewRideRepo(store),
		memory.NewRideEventRepo(store),
		memory.NewFeedbackRepo(store),
		chatSvc,
		notifier,
		publisher,
		memory.NewTxManager(store),
		Config{},
		l,
	)

	f := &fixture{
		svc:       svc,
		chat:      chatSvc,
		store:     store,
		relay:     relay,
		notifier:  notifier,
		publisher: publisher,
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	svc.clock = func() time.Time { return f.now }
	return f
}

func immediateInput() CreateRequestInput {
	return CreateRequestInput{
		RiderID:     riderID,
		Pickup:      models.Location{Address: "A"},
		Dropoff:     models.Location{Address: "B"},
		VehicleType: types.VehicleCar,
		Price:       15,
	}
}

func (f *fixture) accepted(t *testing.T) (*models.RideRequest, *models.Ride, *models.ChatRoom) {
	t.Helper()
	ctx := context.Background()

	req, err := f.svc.CreateRequest(ctx, immediateInput())
	require.NoError(t, err)
	ride, room, err := f.svc.AcceptRequest(ctx, req.ID, driverID, 15)
	require.NoError(t, err)

	req, err = f.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	return req, ride, room
}

func (f *fixture) advanceTo(t *testing.T, rideID uuid.UUID, statuses ...types.RideStatus) *models.Ride {
	t.Helper()
	var ride *models.Ride
	for _, s := range statuses {
		var err error
		ride, err = f.svc.AdvanceRide(context.Background(), rideID, s)
		require.NoError(t, err, "advance to %s", s)
	}
	return ride
}

func TestLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.CreateRequest(ctx, immediateInput())
	require.NoError(t, err)
	assert.Equal(t, types.RequestPending, req.Status)

	ride, room, err := f.svc.AcceptRequest(ctx, req.ID, driverID, 15)
	require.NoError(t, err)
	assert.Equal(t, types.RideAccepted, ride.Status)
	assert.True(t, room.IsActive)
	assert.Equal(t, ride.ID, room.RideID)

	got, err := f.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestMatched, got.Status)

	_, err = f.chat.Send(ctx, room.ID, riderID, "hi", types.MessageText)
	require.NoError(t, err)

	msgs, err := f.chat.ListMessages(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	unread, err := f.chat.UnreadCount(ctx, room.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	_, err = f.svc.AdvanceRide(ctx, ride.ID, types.RideCompleted)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)

	other, err := f.svc.CreateRequest(ctx, immediateInput())
	require.NoError(t, err)

	cancelled, err := f.svc.CancelRequest(ctx, other.ID, riderID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestCancelled, cancelled.Status)
	assert.True(t, cancelled.Status.IsTerminal())
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, riderID, *cancelled.CancelledBy)

	_, _, err = f.svc.AcceptRequest(ctx, other.ID, driverID, 15)
	assert.ErrorIs(t, err, types.ErrInvalidState)
}

func TestCreateRequest_Validation(t *testing.T) {
	f := newFixture(t)
	past := f.now.Add(-time.Minute)
	future := f.now.Add(2 * time.Hour)
	lat := 91.0

	tests := []struct {
		name      string
		mutate    func(in *CreateRequestInput)
		wantField string
	}{
		{"zero price", func(in *CreateRequestInput) { in.Price = 0 }, "price"},
		{"negative price", func(in *CreateRequestInput) { in.Price = -3 }, "price"},
		{"empty pickup", func(in *CreateRequestInput) { in.Pickup.Address = " " }, "pickup.address"},
		{"empty dropoff", func(in *CreateRequestInput) { in.Dropoff.Address = "" }, "dropoff.address"},
		{"unknown vehicle", func(in *CreateRequestInput) { in.VehicleType = "boat" }, "vehicle_type"},
		{"bad latitude", func(in *CreateRequestInput) { in.Pickup.Latitude = &lat }, "pickup.latitude"},
		{"scheduled in the past", func(in *CreateRequestInput) { in.IsScheduled, in.ScheduledTime = true, &past }, "scheduled_time"},
		{"scheduled now", func(in *CreateRequestInput) { in.IsScheduled, in.ScheduledTime = true, &f.now }, "scheduled_time"},
		{"scheduled without time", func(in *CreateRequestInput) { in.IsScheduled = true }, "scheduled_time"},
		{"time without schedule", func(in *CreateRequestInput) { in.ScheduledTime = &future }, "scheduled_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := immediateInput()
			tt.mutate(&in)

			_, err := f.svc.CreateRequest(context.Background(), in)
			require.ErrorIs(t, err, types.ErrValidation)

			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}

	in := immediateInput()
	in.IsScheduled, in.ScheduledTime = true, &future
	req, err := f.svc.CreateRequest(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, req.IsScheduled)
}

func TestAcceptRequest_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.AcceptRequest(ctx, uuid.New(), driverID, 10)
	assert.ErrorIs(t, err, types.ErrNotFound)

	req, err := f.svc.CreateRequest(ctx, immediateInput())
	require.NoError(t, err)

	_, _, err = f.svc.AcceptRequest(ctx, req.ID, "", 10)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, _, err = f.svc.AcceptRequest(ctx, req.ID, driverID, 0)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, _, err = f.svc.AcceptRequest(ctx, req.ID, driverID, 12)
	require.NoError(t, err)

	_, _, err = f.svc.AcceptRequest(ctx, req.ID, "driver-2", 12)
	assert.ErrorIs(t, err, types.ErrRequestNotPending)
}

func TestAcceptRequest_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.CreateRequest(ctx, immediateInput())
	require.NoError(t, err)

	const drivers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
		losers  int
	)
	for i := range drivers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := "driver-" + string(rune('a'+i))
			_, _, err := f.svc.AcceptRequest(ctx, req.ID, id, 15)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, id)
				return
			}
			assert.ErrorIs(t, err, types.ErrInvalidState)
			losers++
		}()
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, drivers-1, losers)

	ride, err := f.svc.GetRideByRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, winners[0], ride.DriverID)
}

func TestAdvanceRide_FullProgression(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, ride, room := f.accepted(t)
	f.notifier.reset()

	ride = f.advanceTo(t, ride.ID, types.RideArriving)
	got, err := f.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestActive, got.Status, "request becomes active once the ride leaves accepted")

	ride = f.advanceTo(t, ride.ID, types.RidePickup, types.RideEnroute)
	assert.NotNil(t, ride.StartedAt)

	ride = f.advanceTo(t, ride.ID, types.RideCompleted)
	assert.Equal(t, types.RideCompleted, ride.Status)
	assert.NotNil(t, ride.CompletedAt)

	got, err = f.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestCompleted, got.Status)

	closed, err := f.chat.Room(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	assert.Equal(t, 1, f.relay.closed(), "room closed is announced once, after the commit")

	assert.Equal(t, []string{riderID, riderID, riderID, riderID}, f.notifier.recipients())

	_, err = f.svc.AdvanceRide(ctx, ride.ID, types.RideCancelled)
	assert.ErrorIs(t, err, types.ErrAlreadyTerminal)

	events := f.store.Events()
	var kinds []types.RideEvent
	for _, e := range events {
		kinds = append(kinds, e.Type)
	}
	assert.Equal(t, []types.RideEvent{
		types.EventRequestCreated,
		types.EventDriverMatched,
		types.EventDriverArriving,
		types.EventRiderPickedUp,
		types.EventRideStarted,
		types.EventRideCompleted,
	}, kinds)
}

func TestAdvanceRide_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []types.RideStatus
		next    types.RideStatus
		wantErr error
	}{
		{"skip arriving", nil, types.RidePickup, types.ErrInvalidTransition},
		{"skip to completed", []types.RideStatus{types.RideArriving}, types.RideCompleted, types.ErrInvalidTransition},
		{"backward", []types.RideStatus{types.RideArriving, types.RidePickup}, types.RideArriving, types.ErrInvalidTransition},
		{"same status", []types.RideStatus{types.RideArriving}, types.RideArriving, types.ErrInvalidTransition},
		{"unknown status", nil, "flying", types.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, ride, _ := f.accepted(t)
			before := f.advanceTo(t, ride.ID, tt.path...)
			if before == nil {
				before = ride
			}

			_, err := f.svc.AdvanceRide(context.Background(), ride.ID, tt.next)
			assert.ErrorIs(t, err, tt.wantErr)

			after, err := f.svc.GetRide(context.Background(), ride.ID)
			require.NoError(t, err)
			assert.Equal(t, before.Status, after.Status)
		})
	}
}

func TestAdvanceRide_SystemCancelNotifiesBoth(t *testing.T) {
	f := newFixture(t)
	req, ride, room := f.accepted(t)
	f.notifier.reset()

	cancelled, err := f.svc.AdvanceRide(context.Background(), ride.ID, types.RideCancelled)
	require.NoError(t, err)
	assert.Equal(t, types.RideCancelled, cancelled.Status)
	assert.Nil(t, cancelled.CancelledBy)

	assert.ElementsMatch(t, []string{riderID, driverID}, f.notifier.recipients())

	got, err := f.svc.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestCancelled, got.Status)

	closed, err := f.chat.Room(context.Background(), room.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
}

func TestCancelRide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, ride, room := f.accepted(t)
	f.advanceTo(t, ride.ID, types.RideArriving)
	f.notifier.reset()

	_, err := f.svc.CancelRide(ctx, ride.ID, "stranger")
	assert.ErrorIs(t, err, types.ErrNotFound)

	cancelled, err := f.svc.CancelRide(ctx, ride.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, types.RideCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, driverID, *cancelled.CancelledBy)
	assert.NotNil(t, cancelled.CancelledAt)

	got, err := f.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestCancelled, got.Status)
	require.NotNil(t, got.CancelledBy)
	assert.Equal(t, driverID, *got.CancelledBy)

	assert.Equal(t, []string{riderID}, f.notifier.recipients())

	_, err = f.chat.Send(ctx, room.ID, riderID, "where are you?", types.MessageText)
	assert.ErrorIs(t, err, types.ErrChatRoomInactive)

	_, err = f.svc.CancelRide(ctx, ride.ID, driverID)
	assert.ErrorIs(t, err, types.ErrAlreadyTerminal)
}

func TestCancelRequest_CancelsMatchedRide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, ride, _ := f.accepted(t)
	f.notifier.reset()

	_, err := f.svc.CancelRequest(ctx, req.ID, "stranger")
	assert.ErrorIs(t, err, types.ErrNotParticipant)

	cancelled, err := f.svc.CancelRequest(ctx, req.ID, riderID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestCancelled, cancelled.Status)

	gotRide, err := f.svc.GetRide(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RideCancelled, gotRide.Status)

	assert.Equal(t, []string{driverID}, f.notifier.recipients())

	f.publisher.mu.Lock()
	last := f.publisher.events[len(f.publisher.events)-1]
	f.publisher.mu.Unlock()
	assert.Equal(t, types.EventRideCancelled, last.Event)
	assert.Equal(t, types.RequestCancelled, last.RequestStatus)
	assert.Equal(t, types.RideCancelled, last.RideStatus)
	assert.Equal(t, riderID, last.ActorID)
}

func TestCancelRequest_LostRideUpdateRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req, ride, room := f.accepted(t)
	f.notifier.reset()
	eventsBefore := len(f.store.Events())

	f.svc.rides = lostCancelRideRepo{RideRepo: f.svc.rides}

	_, err := f.svc.CancelRequest(ctx, req.ID, riderID)
	require.ErrorIs(t, err, types.ErrStatusChanged)

	gotReq, err := f.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RequestMatched, gotReq.Status, "request cancellation is rolled back")
	assert.Nil(t, gotReq.CancelledBy)

	gotRide, err := f.svc.GetRide(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RideAccepted, gotRide.Status)

	gotRoom, err := f.chat.Room(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, gotRoom.IsActive)

	assert.Len(t, f.store.Events(), eventsBefore)
	assert.Zero(t, f.relay.closed(), "no room closed event for a rolled back cancellation")
	assert.Empty(t, f.notifier.recipients())
}

func TestCancelAndAdvance_ConcurrentStayCoupled(t *testing.T) {
	for range 20 {
		f := newFixture(t)
		ctx := context.Background()
		req, ride, room := f.accepted(t)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.svc.CancelRequest(ctx, req.ID, riderID)
		}()
		go func() {
			defer wg.Done()
			_, _ = f.svc.AdvanceRide(ctx, ride.ID, types.RideArriving)
		}()
		wg.Wait()

		gotReq, err := f.svc.GetRequest(ctx, req.ID)
		require.NoError(t, err)
		gotRide, err := f.svc.GetRide(ctx, ride.ID)
		require.NoError(t, err)
		gotRoom, err := f.chat.Room(ctx, room.ID)
		require.NoError(t, err)

		if gotReq.Status == types.RequestCancelled {
			assert.Equal(t, types.RideCancelled, gotRide.Status)
			assert.False(t, gotRoom.IsActive)
			assert.Equal(t, 1, f.relay.closed())
			continue
		}
		assert.Equal(t, types.RequestActive, gotReq.Status)
		assert.Equal(t, types.RideArriving, gotRide.Status)
		assert.True(t, gotRoom.IsActive)
		assert.Zero(t, f.relay.closed())
	}
}

func TestCancelRequest_PendingHasNoCounterParty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.CreateRequest(ctx, immediateInput())
	require.NoError(t, err)

	_, err = f.svc.CancelRequest(ctx, req.ID, riderID)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.recipients())

	_, err = f.svc.CancelRequest(ctx, req.ID, riderID)
	assert.ErrorIs(t, err, types.ErrInvalidState)
}

func TestListScheduled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	schedule := func(rider string, in time.Duration) *models.RideRequest {
		at := f.now.Add(in)
		input := immediateInput()
		input.RiderID = rider
		input.IsScheduled, input.ScheduledTime = true, &at
		req, err := f.svc.CreateRequest(ctx, input)
		require.NoError(t, err)
		return req
	}

	late := schedule(riderID, 5*time.Hour)
	early := schedule(riderID, 90*time.Minute)
	mid := schedule(riderID, 3*time.Hour)
	cancelled := schedule(riderID, 4*time.Hour)
	schedule("rider-2", 2*time.Hour)

	_, err := f.svc.CreateRequest(ctx, immediateInput())
	require.NoError(t, err)
	_, err = f.svc.CancelRequest(ctx, cancelled.ID, riderID)
	require.NoError(t, err)

	list, err := f.svc.ListScheduled(ctx, riderID, f.now.Add(time.Hour))
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uuid.UUID{early.ID, mid.ID, late.ID}, ids)

	list, err = f.svc.ListScheduled(ctx, riderID, f.now.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, mid.ID, list[0].ID, "from bound is inclusive")

	_, err = f.svc.ListScheduled(ctx, "", f.now)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestListHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateRequest(ctx, immediateInput())
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := f.svc.CreateRequest(ctx, immediateInput())
	require.NoError(t, err)

	list, err := f.svc.ListHistory(ctx, riderID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestEligible(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	tests := []struct {
		name string
		req  *models.RideRequest
		want bool
	}{
		{"immediate pending", &models.RideRequest{Status: types.RequestPending}, true},
		{"immediate matched", &models.RideRequest{Status: types.RequestMatched}, false},
		{"scheduled far away", &models.RideRequest{Status: types.RequestPending, IsScheduled: true, ScheduledTime: at(61 * time.Minute)}, false},
		{"scheduled window edge", &models.RideRequest{Status: types.RequestPending, IsScheduled: true, ScheduledTime: at(time.Hour)}, true},
		{"scheduled inside window", &models.RideRequest{Status: types.RequestPending, IsScheduled: true, ScheduledTime: at(59 * time.Minute)}, true},
		{"scheduled departure passed", &models.RideRequest{Status: types.RequestPending, IsScheduled: true, ScheduledTime: at(-time.Minute)}, true},
		{"scheduled cancelled", &models.RideRequest{Status: types.RequestCancelled, IsScheduled: true, ScheduledTime: at(time.Minute)}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(tt.req, now, DefaultMatchingWindow))
		})
	}
}

func TestSubmitFeedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, ride, _ := f.accepted(t)

	input := FeedbackInput{RideID: ride.ID, AuthorID: riderID, Rating: 5, SafetyRating: 4, Text: "great"}

	_, err := f.svc.SubmitFeedback(ctx, input)
	assert.ErrorIs(t, err, types.ErrRideNotCompleted)

	f.advanceTo(t, ride.ID, types.RideArriving, types.RidePickup, types.RideEnroute, types.RideCompleted)

	bad := input
	bad.Rating = 6
	_, err = f.svc.SubmitFeedback(ctx, bad)
	assert.ErrorIs(t, err, types.ErrValidation)

	stranger := input
	stranger.AuthorID = "stranger"
	_, err = f.svc.SubmitFeedback(ctx, stranger)
	assert.ErrorIs(t, err, types.ErrNotFound)

	fb, err := f.svc.SubmitFeedback(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 5, fb.Rating)

	_, err = f.svc.SubmitFeedback(ctx, input)
	assert.ErrorIs(t, err, types.ErrFeedbackExists)

	driverFb := input
	driverFb.AuthorID = driverID
	_, err = f.svc.SubmitFeedback(ctx, driverFb)
	require.NoError(t, err)
}
