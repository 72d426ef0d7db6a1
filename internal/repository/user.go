package repository

import (
	"context"

	"viewtube/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	UpdateRefreshToken(ctx context.Context, id int64, token string) error
	// RotateRefreshToken swaps the stored refresh token only when the current
	// slot value equals `current`. Returns false when the slot changed
	// underneath the caller (token already rotated or revoked).
	RotateRefreshToken(ctx context.Context, id int64, current, next string) (bool, error)
	ClearRefreshToken(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateAccount(ctx context.Context, id int64, fullName, email string) error
	UpdateAvatar(ctx context.Context, id int64, avatarURL string) error
	UpdateCoverImage(ctx context.Context, id int64, coverImageURL string) error
	ChannelProfile(ctx context.Context, username string, viewerID int64) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID int64) ([]domain.VideoWithOwner, error)
	AppendWatchHistory(ctx context.Context, userID, videoID int64) error
}
