package memory

import (
	"context"
	"slices"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
)

type PushSubscriptionRepo struct{ s *Store }

func NewPushSubscriptionRepo(s *Store) *PushSubscriptionRepo { return &PushSubscriptionRepo{s: s} }

func (r *PushSubscriptionRepo) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	defer r.s.lock(ctx)()

	key := subKey{userID: sub.UserID, endpoint: sub.Endpoint}
	now := r.s.now()

	stored, exists := r.s.subs[key]
	if !exists {
		stored = models.PushSubscription{UserID: sub.UserID, Endpoint: sub.Endpoint, CreatedAt: now}
	}
	stored.Keys = sub.Keys
	stored.IsActive = true
	stored.UpdatedAt = now
	r.s.subs[key] = stored

	*sub = stored
	return nil
}

func (r *PushSubscriptionRepo) Deactivate(ctx context.Context, userID, endpoint string) (int64, error) {
	defer r.s.lock(ctx)()

	var n int64
	for key, sub := range r.s.subs {
		if key.userID != userID || !sub.IsActive {
			continue
		}
		if endpoint != "" && key.endpoint != endpoint {
			continue
		}
		sub.IsActive = false
		sub.UpdatedAt = r.s.now()
		r.s.subs[key] = sub
		n++
	}
	return n, nil
}

func (r *PushSubscriptionRepo) ListActive(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	defer r.s.rlock(ctx)()

	out := make([]models.PushSubscription, 0)
	for key, sub := range r.s.subs {
		if key.userID == userID && sub.IsActive {
			out = append(out, sub)
		}
	}
	slices.SortFunc(out, func(a, b models.PushSubscription) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.Endpoint < b.Endpoint:
			return -1
		case a.Endpoint > b.Endpoint:
			return 1
		}
		return 0
	})
	return out, nil
}

type NotificationRepo struct{ s *Store }

func NewNotificationRepo(s *Store) *NotificationRepo { return &NotificationRepo{s: s} }

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	defer r.s.lock(ctx)()

	n.CreatedAt = r.s.now()
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

type PreferencesRepo struct{ s *Store }

func NewPreferencesRepo(s *Store) *PreferencesRepo { return &PreferencesRepo{s: s} }

func (r *PreferencesRepo) Get(ctx context.Context, userID string) (*models.Preferences, error) {
	defer r.s.rlock(ctx)()

	p, ok := r.s.prefs[userID]
	if !ok {
		p = models.Preferences{UserID: userID}
	}
	return &p, nil
}

func (r *PreferencesRepo) Upsert(ctx context.Context, p *models.Preferences) error {
	defer r.s.lock(ctx)()

	p.UpdatedAt = r.s.now()
	r.s.prefs[p.UserID] = *p
	return nil
}
