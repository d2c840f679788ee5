package chat

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
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
)

type recordingRelay struct {
	mu     sync.Mutex
	events []models.RelayEvent
}

func (r *recordingRelay) Publish(_ context.Context, _ uuid.UUID, event models.RelayEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingRelay) snapshot() []models.RelayEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.RelayEvent(nil), r.events...)
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []models.NotificationMessage
	muted map[string]bool
}

func (n *recordingNotifier) Dispatch(_ context.Context, msg models.NotificationMessage) (*models.DispatchResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return &models.DispatchResult{Delivered: true, SuccessCount: 1}, nil
}

func (n *recordingNotifier) Preferences(_ context.Context, userID string) (*models.Preferences, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return &models.Preferences{UserID: userID, ChatMuted: n.muted[userID]}, nil
}

type recordingSafety struct {
	mu     sync.Mutex
	events []models.SafetyEventMessage
}

func (p *recordingSafety) PublishSafetyEvent(_ context.Context, msg models.SafetyEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, msg)
	return nil
}

type fixture struct {
	svc      *Service
	store    *memory.Store
	relay    *recordingRelay
	notifier *recordingNotifier
	safety   *recordingSafety
	rideID   uuid.UUID
}

const (
	riderID  = "rider-1"
	driverID = "driver-1"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		store:    store,
		relay:    &recordingRelay{},
		notifier: &recordingNotifier{muted: map[string]bool{}},
		safety:   &recordingSafety{},
	}
	f.svc = NewService(
		memory.NewChatRoomRepo(store),
		memory.NewChatMessageRepo(store),
		memory.NewQuickMessageRepo(store),
		f.relay,
		f.notifier,
		f.safety,
		Config{},
		logger.Discard(),
	)
	f.rideID = f.seedRide(t)
	return f
}

func (f *fixture) seedRide(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	req := &models.RideRequest{ID: uuid.New(), RiderID: riderID, Status: types.RequestMatched}
	require.NoError(t, memory.NewRideRequestRepo(f.store).Create(ctx, req))

	ride := &models.Ride{ID: uuid.New(), RequestID: req.ID, RiderID: riderID, DriverID: driverID, Status: types.RideAccepted}
	require.NoError(t, memory.NewRideRepo(f.store).Create(ctx, ride))
	return ride.ID
}

func (f *fixture) room(t *testing.T) *models.ChatRoom {
	t.Helper()
	room, err := f.svc.GetOrCreateRoom(context.Background(), f.rideID, riderID, driverID)
	require.NoError(t, err)
	return room
}

func TestGetOrCreateRoom_Concurrent(t *testing.T) {
	f := newFixture(t)

	const callers = 32
	ids := make([]uuid.UUID, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room, err := f.svc.GetOrCreateRoom(context.Background(), f.rideID, riderID, driverID)
			if assert.NoError(t, err) {
				ids[i] = room.ID
			}
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	room, err := f.svc.RoomByRide(context.Background(), f.rideID)
	require.NoError(t, err)
	assert.Equal(t, ids[0], room.ID)
	assert.True(t, room.IsActive)
}

func TestGetOrCreateRoom_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetOrCreateRoom(context.Background(), f.rideID, "", driverID)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = f.svc.GetOrCreateRoom(context.Background(), uuid.Nil, riderID, driverID)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestSend(t *testing.T) {
	tests := []struct {
		name    string
		sender  string
		text    string
		msgType types.MessageType
		wantErr error
	}{
		{name: "rider text", sender: riderID, text: "I'm at the gate", msgType: types.MessageText},
		{name: "driver location", sender: driverID, text: "43.23,76.88", msgType: types.MessageLocation},
		{name: "default type", sender: riderID, text: "hi"},
		{name: "whitespace only", sender: riderID, text: "  \t\n ", msgType: types.MessageText, wantErr: types.ErrValidation},
		{name: "unknown type", sender: riderID, text: "hi", msgType: "sticker", wantErr: types.ErrValidation},
		{name: "not a participant", sender: "stranger", text: "hi", msgType: types.MessageText, wantErr: types.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			room := f.room(t)

			msg, err := f.svc.Send(context.Background(), room.ID, tt.sender, tt.text, tt.msgType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.relay.snapshot())
				assert.Empty(t, f.notifier.sent)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, room.ID, msg.ChatRoomID)
			assert.False(t, msg.IsRead)

			events := f.relay.snapshot()
			require.Len(t, events, 1)
			assert.Equal(t, models.RelayMessageCreated, events[0].Type)
			assert.Equal(t, msg.ID, events[0].Message.ID)

			require.Len(t, f.notifier.sent, 1)
			assert.Equal(t, room.Recipient(tt.sender), f.notifier.sent[0].UserID)
			assert.Equal(t, msg.ID.String(), f.notifier.sent[0].Payload["messageId"])
		})
	}
}

func TestSend_UnknownRoom(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), uuid.New(), riderID, "hello", types.MessageText)
	assert.ErrorIs(t, err, types.ErrChatRoomNotFound)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSend_InactiveRoom(t *testing.T) {
	f := newFixture(t)
	room := f.room(t)

	_, err := f.svc.Deactivate(context.Background(), f.rideID)
	require.NoError(t, err)

	_, err = f.svc.Send(context.Background(), room.ID, riderID, "still there?", types.MessageText)
	assert.ErrorIs(t, err, types.ErrInvalidState)

	_, err = f.svc.Send(context.Background(), room.ID, riderID, "help", types.MessageSafetyAlert)
	assert.ErrorIs(t, err, types.ErrChatRoomInactive)

	msgs, err := f.svc.ListMessages(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSend_MutedRecipient(t *testing.T) {
	f := newFixture(t)
	room := f.room(t)
	f.notifier.muted[driverID] = true

	_, err := f.svc.Send(context.Background(), room.ID, riderID, "hello", types.MessageText)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sent, "muted recipient gets no chat notification")

	alert, err := f.svc.Send(context.Background(), room.ID, riderID, "driver took a strange turn", types.MessageSafetyAlert)
	require.NoError(t, err)

	require.Len(t, f.notifier.sent, 1, "safety alert ignores mute")
	n := f.notifier.sent[0]
	assert.Equal(t, driverID, n.UserID)
	assert.Equal(t, "Safety Alert", n.Title)
	assert.Equal(t, types.NotificationSafety, n.Type)

	require.Len(t, f.safety.events, 1)
	assert.Equal(t, types.SafetyAlertRaised, f.safety.events[0].Event)
	assert.Equal(t, alert.ID, f.safety.events[0].MessageID)
	assert.Equal(t, f.rideID, f.safety.events[0].RideID)
}

func TestListMessages_Order(t *testing.T) {
	f := newFixture(t)
	room := f.room(t)
	ctx := context.Background()

	var sent []uuid.UUID
	for i, text := range []string{"one", "two", "three", "four"} {
		sender := riderID
		if i%2 == 1 {
			sender = driverID
		}
		msg, err := f.svc.Send(ctx, room.ID, sender, text, types.MessageText)
		require.NoError(t, err)
		sent = append(sent, msg.ID)
	}

	msgs, err := f.svc.ListMessages(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, len(sent))
	for i := range msgs {
		assert.Equal(t, sent[i], msgs[i].ID)
		if i > 0 {
			assert.False(t, msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt))
			assert.Greater(t, msgs[i].Seq, msgs[i-1].Seq)
		}
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	f := newFixture(t)
	room := f.room(t)
	ctx := context.Background()

	for _, text := range []string{"a", "b", "c"} {
		_, err := f.svc.Send(ctx, room.ID, driverID, text, types.MessageText)
		require.NoError(t, err)
	}
	_, err := f.svc.Send(ctx, room.ID, riderID, "own message", types.MessageText)
	require.NoError(t, err)

	unread, err := f.svc.UnreadCount(ctx, room.ID, riderID)
	require.NoError(t, err)
	assert.Equal(t, 3, unread)

	n, err := f.svc.MarkRead(ctx, room.ID, riderID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = f.svc.MarkRead(ctx, room.ID, riderID)
	require.NoError(t, err)
	assert.Zero(t, n)

	unread, err = f.svc.UnreadCount(ctx, room.ID, riderID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	unread, err = f.svc.UnreadCount(ctx, room.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread, "driver still has the rider's message unread")
}

func TestFlag_Idempotent(t *testing.T) {
	f := newFixture(t)
	room := f.room(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, room.ID, driverID, "rude words", types.MessageText)
	require.NoError(t, err)

	for range 3 {
		flagged, err := f.svc.Flag(ctx, msg.ID, riderID)
		require.NoError(t, err)
		assert.True(t, flagged.IsFlagged)
	}

	require.Len(t, f.safety.events, 1)
	assert.Equal(t, types.SafetyMessageFlagged, f.safety.events[0].Event)

	_, err = f.svc.Flag(ctx, uuid.New(), riderID)
	assert.ErrorIs(t, err, types.ErrMessageNotFound)
}

func TestFlag_NonParticipant(t *testing.T) {
	f := newFixture(t)
	room := f.room(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, room.ID, driverID, "see you soon", types.MessageText)
	require.NoError(t, err)

	flagged, err := f.svc.Flag(ctx, msg.ID, "rider-2")
	assert.ErrorIs(t, err, types.ErrNotParticipant)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Nil(t, flagged)
	assert.Empty(t, f.safety.events)

	msgs, err := f.svc.ListMessages(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].IsFlagged)
}

func TestSend_KeepsTextAsSent(t *testing.T) {
	f := newFixture(t)
	room := f.room(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, room.ID, riderID, "  on my way\n", types.MessageText)
	require.NoError(t, err)
	assert.Equal(t, "  on my way\n", msg.Text)

	msgs, err := f.svc.ListMessages(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "  on my way\n", msgs[0].Text)
}

func TestCloseRoom_DoesNotPublish(t *testing.T) {
	f := newFixture(t)
	room := f.room(t)
	ctx := context.Background()

	closed, changed, err := f.svc.CloseRoom(ctx, f.rideID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, closed.IsActive)
	assert.Empty(t, f.relay.snapshot())

	_, changed, err = f.svc.CloseRoom(ctx, f.rideID)
	require.NoError(t, err)
	assert.False(t, changed)

	f.svc.AnnounceClosed(ctx, closed)
	events := f.relay.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, models.RelayRoomClosed, events[0].Type)
	assert.Equal(t, room.ID, events[0].RoomID)
}

func TestDeactivate_Idempotent(t *testing.T) {
	f := newFixture(t)
	room := f.room(t)
	ctx := context.Background()

	for range 2 {
		closed, err := f.svc.Deactivate(ctx, f.rideID)
		require.NoError(t, err)
		assert.False(t, closed.IsActive)
	}

	events := f.relay.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, models.RelayRoomClosed, events[0].Type)
	assert.Equal(t, room.ID, events[0].RoomID)
}

func TestParticipantRoom(t *testing.T) {
	f := newFixture(t)
	room := f.room(t)

	got, err := f.svc.ParticipantRoom(context.Background(), room.ID, driverID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)

	_, err = f.svc.ParticipantRoom(context.Background(), room.ID, "someone-else")
	assert.ErrorIs(t, err, types.ErrNotParticipant)
}

func TestQuickMessages_SortedByCategory(t *testing.T) {
	f := newFixture(t)

	list, err := f.svc.QuickMessages(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1].Category, list[i].Category)
	}
}

func TestChatNotification_Titles(t *testing.T) {
	room := &models.ChatRoom{ID: uuid.New(), RideID: uuid.New(), RiderID: riderID, DriverID: driverID}

	tests := []struct {
		sender    string
		msgType   types.MessageType
		wantTitle string
	}{
		{riderID, types.MessageText, "New message from rider"},
		{driverID, types.MessageText, "New message from driver"},
		{driverID, types.MessageSystem, "New message from driver"},
		{driverID, types.MessageLocation, "Location Shared"},
		{riderID, types.MessageSafetyAlert, "Safety Alert"},
	}

	for _, tt := range tests {
		t.Run(string(tt.msgType)+"/"+tt.sender, func(t *testing.T) {
			msg := &models.ChatMessage{ID: uuid.New(), SenderID: tt.sender, Text: "x", Type: tt.msgType, CreatedAt: time.Now()}
			n := chatNotification(room, msg)
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, "chat_message", n.Payload["type"])
			assert.Equal(t, room.ID.String(), n.Payload["chatRoomId"])
			assert.Equal(t, room.RideID.String(), n.Payload["rideId"])
			assert.Equal(t, tt.msgType.String(), n.Payload["messageType"])
		})
	}
}
