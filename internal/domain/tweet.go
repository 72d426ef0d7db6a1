package domain

import "time"

// Tweet is a short text post owned by a user.
type Tweet struct {
	ID        int64
	OwnerID   int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// OwnerUsername is populated by list queries that join the owner.
	OwnerUsername string
}
