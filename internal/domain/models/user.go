package models

import (
	"context"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

// User is the pre-authenticated caller. ID is opaque to the coordinator.
type User struct {
	ID   string         `json:"id"`
	Role types.UserRole `json:"role"`
}

func AnonymousUser() *User {
	return &User{}
}

func (u *User) IsAnonymous() bool {
	return u == nil || u.ID == ""
}

type userCtxKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the caller stored by auth middleware, nil if none.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}
