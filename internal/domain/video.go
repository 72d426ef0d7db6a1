package domain

import "time"

// Video is referenced by comments and watch history. This service does not
// expose a write path for videos; records are created out of band.
type Video struct {
	ID        int64
	OwnerID   int64
	Title     string
	URL       string
	CreatedAt time.Time
}

// VideoWithOwner is a video joined with a summary of its owning channel,
// as returned by the watch history query.
type VideoWithOwner struct {
	Video
	OwnerUsername  string
	OwnerFullName  string
	OwnerAvatarURL string
}
