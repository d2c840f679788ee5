package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

const secret = "test-secret"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func claimsFor(sub, role string, exp time.Time) Claims {
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestTokenVerifier_RoleCheck(t *testing.T) {
	v := NewTokenVerifier(secret, 0)
	v.now = func() time.Time { return fixedNow }

	tests := []struct {
		name     string
		token    string
		wantErr  error
		wantID   string
		wantRole types.UserRole
	}{
		{
			name:     "rider",
			token:    sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("rider-1", "rider", fixedNow.Add(time.Hour))),
			wantID:   "rider-1",
			wantRole: types.RoleRider,
		},
		{
			name:     "driver",
			token:    sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("driver-1", "driver", fixedNow.Add(time.Hour))),
			wantID:   "driver-1",
			wantRole: types.RoleDriver,
		},
		{
			name:    "expired",
			token:   sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("rider-1", "rider", fixedNow.Add(-time.Minute))),
			wantErr: ErrExpToken,
		},
		{
			name:    "wrong secret",
			token:   sign(t, jwt.SigningMethodHS256, []byte("other"), claimsFor("rider-1", "rider", fixedNow.Add(time.Hour))),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong algorithm",
			token:   sign(t, jwt.SigningMethodHS384, []byte(secret), claimsFor("rider-1", "rider", fixedNow.Add(time.Hour))),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "missing subject",
			token:   sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("", "rider", fixedNow.Add(time.Hour))),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "unknown role",
			token:   sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("admin-1", "admin", fixedNow.Add(time.Hour))),
			wantErr: ErrInvalidRole,
		},
		{
			name:    "garbage",
			token:   "not.a.token",
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := v.RoleCheck(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, user.ID)
			assert.Equal(t, tt.wantRole, user.Role)
		})
	}
}

func TestTokenVerifier_MissingExpiry(t *testing.T) {
	v := NewTokenVerifier(secret, 0)

	token := sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{
		Role:             "rider",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "rider-1"},
	})

	_, err := v.RoleCheck(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
