package repository

import (
	"context"

	"viewtube/internal/domain"
)

// SubscriptionRepository defines persistence operations for the directed
// subscriber→channel edges read by the channel profile query.
type SubscriptionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, sub *domain.Subscription) (int64, error)
	Delete(ctx context.Context, subscriberID, channelID int64) error
	CountSubscribers(ctx context.Context, channelID int64) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID int64) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID int64) (bool, error)
}
