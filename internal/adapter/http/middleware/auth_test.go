package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/logger"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
)

type fakeAuth map[string]*models.User

func (f fakeAuth) RoleCheck(_ context.Context, token string) (*models.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid token")
}

func newTestMiddleware() *Middleware {
	return NewMiddleware(fakeAuth{
		"rider-token":  {ID: "rider-1", Role: types.RoleRider},
		"driver-token": {ID: "driver-1", Role: types.RoleDriver},
	}, logger.Discard())
}

func TestAuthAndRequireRoles(t *testing.T) {
	m := newTestMiddleware()

	var seen *models.User
	riderOnly := m.Auth(m.RequireRoles(func(w http.ResponseWriter, r *http.Request) {
		seen = models.UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}, types.RoleRider))

	tests := []struct {
		name   string
		header string
		want   int
		wantID string
	}{
		{name: "no token", want: http.StatusUnauthorized},
		{name: "malformed header", header: "Token abc", want: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer driver-token", want: http.StatusForbidden},
		{name: "rider", header: "Bearer rider-token", want: http.StatusNoContent, wantID: "rider-1"},
		{name: "case insensitive scheme", header: "bearer rider-token", want: http.StatusNoContent, wantID: "rider-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/riders/me/ride-requests", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			riderOnly.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.wantID != "" {
				if assert.NotNil(t, seen) {
					assert.Equal(t, tt.wantID, seen.ID)
				}
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestRequireRoles_AnyAuthenticated(t *testing.T) {
	m := newTestMiddleware()
	h := m.Auth(m.RequireRoles(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, token := range []string{"rider-token", "driver-token"} {
		req := httptest.NewRequest(http.MethodGet, "/chat/quick-messages", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, token)
	}
}

func TestAuth_WebsocketQueryToken(t *testing.T) {
	m := newTestMiddleware()

	var seen *models.User
	h := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = models.UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/ws/chat/rooms/abc?access_token=driver-token", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if assert.NotNil(t, seen) {
		assert.Equal(t, "driver-1", seen.ID)
	}

	// the query token is ignored outside websocket routes
	req = httptest.NewRequest(http.MethodGet, "/rides/abc?access_token=driver-token", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, seen.IsAnonymous())
}

func TestRequestID(t *testing.T) {
	m := newTestMiddleware()

	var got string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = wrap.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "corr-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "corr-1", got)
	assert.Equal(t, "corr-1", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "corr-1", got)
	assert.Equal(t, got, rec.Header().Get(RequestIDHeader))
}

func TestRecover(t *testing.T) {
	m := newTestMiddleware()
	h := m.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
