package webpush

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

func newSubscription(t *testing.T, endpoint string) models.PushSubscription {
	t.Helper()

	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	return models.PushSubscription{
		UserID:   "rider-1",
		Endpoint: endpoint,
		Keys: models.PushKeys{
			P256dh: base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
			Auth:   base64.RawURLEncoding.EncodeToString(auth),
		},
		IsActive: true,
	}
}

func newTransport(t *testing.T) *Transport {
	t.Helper()

	priv, pub, err := GenerateKeys()
	require.NoError(t, err)

	return New(Config{
		Subject:    "mailto:ops@example.com",
		PublicKey:  pub,
		PrivateKey: priv,
		TTL:        time.Minute,
	}, &http.Client{Timeout: 2 * time.Second})
}

func TestDeliver_StatusMapping(t *testing.T) {
	tests := []struct {
		status  int
		want    types.DeliveryOutcome
		wantErr error
	}{
		{http.StatusCreated, types.DeliveryDelivered, nil},
		{http.StatusOK, types.DeliveryDelivered, nil},
		{http.StatusGone, types.DeliveryGone, types.ErrEndpointGone},
		{http.StatusNotFound, types.DeliveryGone, types.ErrEndpointGone},
		{http.StatusTooManyRequests, types.DeliveryTransient, types.ErrDeliveryTransient},
		{http.StatusInternalServerError, types.DeliveryTransient, types.ErrDeliveryTransient},
		{http.StatusBadRequest, types.DeliveryTransient, types.ErrDeliveryTransient},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var got atomic.Pointer[http.Request]
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got.Store(r)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			tr := newTransport(t)
			outcome, err := tr.Deliver(context.Background(), newSubscription(t, srv.URL+"/push/abc"), []byte(`{"title":"hi"}`))

			assert.Equal(t, tt.want, outcome)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			r := got.Load()
			require.NotNil(t, r)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/push/abc", r.URL.Path)
			assert.Equal(t, "aes128gcm", r.Header.Get("Content-Encoding"))
			assert.Equal(t, "60", r.Header.Get("TTL"))
			assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "vapid t="))
		})
	}
}

func TestDeliver_UnreachableIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	outcome, err := newTransport(t).Deliver(context.Background(), newSubscription(t, url), []byte(`{}`))
	assert.Equal(t, types.DeliveryTransient, outcome)
	assert.ErrorIs(t, err, types.ErrDeliveryTransient)
}

func TestDeliver_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	outcome, err := newTransport(t).Deliver(ctx, newSubscription(t, srv.URL), []byte(`{}`))
	assert.Equal(t, types.DeliveryTransient, outcome)
	assert.Error(t, err)
}

func TestDeliver_VAPIDSubject(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{subject: "mailto:ops@example.com", want: "mailto:ops@example.com"},
		{subject: "ops@example.com", want: "mailto:ops@example.com"},
		{subject: "https://example.com/contact", want: "https://example.com/contact"},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			authorization := make(chan string, 1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				authorization <- r.Header.Get("Authorization")
				w.WriteHeader(http.StatusCreated)
			}))
			defer srv.Close()

			priv, pub, err := GenerateKeys()
			require.NoError(t, err)
			tr := New(Config{Subject: tt.subject, PublicKey: pub, PrivateKey: priv}, srv.Client())

			outcome, err := tr.Deliver(context.Background(), newSubscription(t, srv.URL), []byte(`{"title":"hi"}`))
			require.NoError(t, err)
			assert.Equal(t, types.DeliveryDelivered, outcome)

			header := <-authorization
			require.True(t, strings.HasPrefix(header, "vapid t="), header)
			token, _, ok := strings.Cut(strings.TrimPrefix(header, "vapid t="), ",")
			require.True(t, ok, header)

			claims := jwt.MapClaims{}
			_, _, err = jwt.NewParser().ParseUnverified(token, claims)
			require.NoError(t, err)
			assert.Equal(t, tt.want, claims["sub"])
		})
	}
}
