// Package webpush delivers notifications to browser push endpoints with VAPID.
package webpush

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

const defaultTTL = 24 * time.Hour

type Config struct {
	Subject    string // mailto: or https: contact of the sender
	PublicKey  string
	PrivateKey string
	TTL        time.Duration
}

// Transport sends one encrypted push message per call.
type Transport struct {
	cfg    Config
	client *http.Client
}

// New returns a transport using client, http.DefaultClient when nil.
func New(cfg Config, client *http.Client) *Transport {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if client == nil {
		client = http.DefaultClient
	}
	// webpush-go adds the mailto: scheme itself to anything that is not https:
	cfg.Subject = strings.TrimPrefix(cfg.Subject, "mailto:")
	return &Transport{cfg: cfg, client: client}
}

// Deliver maps the push service answer to an outcome:
// 2xx delivered, 404 and 410 gone, anything else transient.
func (t *Transport) Deliver(ctx context.Context, sub models.PushSubscription, payload []byte) (types.DeliveryOutcome, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Keys.Auth,
			P256dh: sub.Keys.P256dh,
		},
	}, &webpush.Options{
		HTTPClient:      t.client,
		Subscriber:      t.cfg.Subject,
		VAPIDPublicKey:  t.cfg.PublicKey,
		VAPIDPrivateKey: t.cfg.PrivateKey,
		TTL:             int(t.cfg.TTL.Seconds()),
		Urgency:         webpush.UrgencyHigh,
	})
	if err != nil {
		return types.DeliveryTransient, fmt.Errorf("%w: %w", types.ErrDeliveryTransient, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	return outcomeOf(resp.StatusCode)
}

func outcomeOf(status int) (types.DeliveryOutcome, error) {
	switch {
	case status >= 200 && status < 300:
		return types.DeliveryDelivered, nil
	case status == http.StatusNotFound || status == http.StatusGone:
		return types.DeliveryGone, fmt.Errorf("%w: push service answered %d", types.ErrEndpointGone, status)
	default:
		return types.DeliveryTransient, fmt.Errorf("%w: push service answered %d", types.ErrDeliveryTransient, status)
	}
}

// GenerateKeys returns a fresh VAPID key pair.
func GenerateKeys() (privateKey, publicKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	if err != nil {
		return "", "", errors.Join(errors.New("failed to generate vapid keys"), err)
	}
	return privateKey, publicKey, nil
}
