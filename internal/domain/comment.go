package domain

import "time"

// Comment is a user comment attached to a video.
type Comment struct {
	ID        int64
	VideoID   int64
	OwnerID   int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// OwnerUsername is populated by list queries that join the owner.
	OwnerUsername string
}
