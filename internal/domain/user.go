package domain

import "time"

// User represents a registered account. RefreshToken is the single active
// session slot: it holds the most recently issued refresh token verbatim and
// is cleared on logout.
type User struct {
	ID            int64
	Username      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ChannelProfile is the public view of a user's channel together with
// subscription counts computed against the viewer.
type ChannelProfile struct {
	UserID                    int64
	Username                  string
	FullName                  string
	Email                     string
	AvatarURL                 string
	CoverImageURL             string
	SubscribersCount          int64
	ChannelsSubscribedToCount int64
	IsSubscribed              bool
}
