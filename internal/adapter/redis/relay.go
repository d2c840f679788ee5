// Package redisrelay bridges chat room events between coordinator instances over Redis pub/sub.
package redisrelay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
)

const (
	channelPrefix  = "chat_room:"
	channelPattern = channelPrefix + "*"
)

// LocalPublisher is the in-process hub fed by the bridge.
type LocalPublisher interface {
	Publish(ctx context.Context, roomID uuid.UUID, event models.RelayEvent)
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and checks the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Bridge publishes room events to Redis and replays events from every instance
// into the local hub.
type Bridge struct {
	client *redis.Client
	local  LocalPublisher
	l      logger.Logger
}

func NewBridge(client *redis.Client, local LocalPublisher, l logger.Logger) *Bridge {
	return &Bridge{
		client: client,
		local:  local,
		l:      l,
	}
}

// Publish sends event to the room channel. The local hub receives it back
// through Run. If Redis is unreachable, only local subscribers get the event.
func (b *Bridge) Publish(ctx context.Context, roomID uuid.UUID, event models.RelayEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		b.l.Error(ctx, "failed to encode relay event", err)
		return
	}

	if err := b.client.Publish(ctx, channelName(roomID), data).Err(); err != nil {
		b.l.Warn(wrap.WithRoomID(ctx, roomID.String()), "redis publish failed, delivering locally", "error", err.Error())
		b.local.Publish(ctx, roomID, event)
	}
}

// Run forwards events from Redis into the local hub until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionRedisRelayStarted)

	ps := b.client.PSubscribe(ctx, channelPattern)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channelPattern, err)
	}
	b.l.Info(ctx, "redis relay subscribed", "pattern", channelPattern)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			b.l.Info(ctx, "redis relay stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("redis relay channel closed")
			}

			roomID, event, err := decode(msg.Channel, msg.Payload)
			if err != nil {
				b.l.Warn(ctx, "skipping malformed relay message", "channel", msg.Channel, "error", err.Error())
				continue
			}
			b.local.Publish(ctx, roomID, event)
		}
	}
}

func channelName(roomID uuid.UUID) string {
	return channelPrefix + roomID.String()
}

func decode(channel, payload string) (uuid.UUID, models.RelayEvent, error) {
	var event models.RelayEvent

	id, ok := strings.CutPrefix(channel, channelPrefix)
	if !ok {
		return uuid.Nil, event, fmt.Errorf("unexpected channel %q", channel)
	}
	roomID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, event, fmt.Errorf("invalid room id in channel: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return uuid.Nil, event, fmt.Errorf("invalid relay payload: %w", err)
	}
	if event.RoomID != roomID {
		return uuid.Nil, event, fmt.Errorf("payload room %s does not match channel", event.RoomID)
	}
	return roomID, event, nil
}
