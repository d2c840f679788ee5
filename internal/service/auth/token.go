package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-coordinator/pkg/logger/wrapper"
)

// Claims issued by the identity provider. Subject is the opaque user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HS256 bearer tokens signed with a shared secret.
// The coordinator never issues tokens.
type TokenVerifier struct {
	secret []byte
	leeway time.Duration
	now    func() time.Time
}

func NewTokenVerifier(secret string, leeway time.Duration) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		leeway: leeway,
		now:    time.Now,
	}
}

// Validate parses token and returns its claims.
func (v *TokenVerifier) Validate(ctx context.Context, token string) (*Claims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, ErrExpToken)
		}
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}
	if !types.UserRole(claims.Role).Valid() {
		return nil, wrap.Error(ctx, ErrInvalidRole)
	}

	return claims, nil
}

// RoleCheck resolves the caller of token.
func (v *TokenVerifier) RoleCheck(ctx context.Context, token string) (*models.User, error) {
	claims, err := v.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:   claims.Subject,
		Role: types.UserRole(claims.Role),
	}, nil
}
