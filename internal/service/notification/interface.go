package notification

import (
	"context"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/models"
	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

/*====== Storage ======*/

type SubscriptionRepo interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	Deactivate(ctx context.Context, userID, endpoint string) (int64, error)
	ListActive(ctx context.Context, userID string) ([]models.PushSubscription, error)
}

type PreferencesRepo interface {
	Get(ctx context.Context, userID string) (*models.Preferences, error)
	Upsert(ctx context.Context, p *models.Preferences) error
}

type NotificationRepo interface {
	Create(ctx context.Context, n *models.Notification) error
}

/*====== Delivery ======*/

// Transport attempts one delivery to one endpoint.
// A non-delivered outcome may carry an error describing the failure.
type Transport interface {
	Deliver(ctx context.Context, sub models.PushSubscription, payload []byte) (types.DeliveryOutcome, error)
}
