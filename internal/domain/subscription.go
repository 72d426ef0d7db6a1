package domain

import "time"

// Subscription is a directed edge from a subscriber to a channel (both users).
type Subscription struct {
	ID           int64
	SubscriberID int64
	ChannelID    int64
	CreatedAt    time.Time
}
