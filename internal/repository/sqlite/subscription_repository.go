package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"viewtube/internal/domain"
	"viewtube/internal/repository"
)

const createSubscriptionsTable = `
CREATE TABLE IF NOT EXISTS subscriptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	subscriber_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	channel_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL,
	UNIQUE (subscriber_id, channel_id)
);
`

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) repository.SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSubscriptionsTable); err != nil {
		return fmt.Errorf("create subscriptions table: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) (int64, error) {
	sub.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO subscriptions (subscriber_id, channel_id, created_at)
VALUES (?, ?, ?)`,
		sub.SubscriberID,
		sub.ChannelID,
		sub.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("insert subscription: %w", repository.ErrConflict)
		}
		return 0, fmt.Errorf("insert subscription: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("subscription last insert id: %w", err)
	}
	sub.ID = id
	return id, nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID int64) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM subscriptions WHERE subscriber_id = ? AND channel_id = ?`,
		subscriberID, channelID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete subscription rows affected: %w", err)
	} else if affected == 0 {
		return fmt.Errorf("delete subscription: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = ?`, channelID)
}

func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = ?`, subscriberID)
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = ? AND channel_id = ?)`,
		subscriberID, channelID)

	var subscribed bool
	if err := row.Scan(&subscribed); err != nil {
		return false, fmt.Errorf("scan subscription exists: %w", err)
	}
	return subscribed, nil
}

func (r *SubscriptionRepository) count(ctx context.Context, query string, arg int64) (int64, error) {
	row := r.db.QueryRowContext(ctx, query, arg)

	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("scan subscription count: %w", err)
	}
	return n, nil
}
