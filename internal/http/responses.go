package http

import (
	"time"

	"viewtube/internal/domain"
)

// UserResponse is the sanitized account shape. Password hash and refresh
// token are structurally absent, not merely omitted.
type UserResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverImage"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type OwnerResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

type TweetResponse struct {
	ID        int64         `json:"id"`
	Content   string        `json:"content"`
	Owner     OwnerResponse `json:"owner"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

type CommentResponse struct {
	ID        int64         `json:"id"`
	VideoID   int64         `json:"videoId"`
	Content   string        `json:"content"`
	Owner     OwnerResponse `json:"owner"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

type ChannelProfileResponse struct {
	ID                        int64  `json:"id"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Email                     string `json:"email"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

type WatchHistoryOwner struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

type WatchHistoryEntry struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	URL       string            `json:"url"`
	CreatedAt string            `json:"createdAt"`
	Owner     WatchHistoryOwner `json:"owner"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.AvatarURL,
		CoverImage: user.CoverImageURL,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  user.UpdatedAt.Format(time.RFC3339),
	}
}

func toTweetResponse(tweet *domain.Tweet) TweetResponse {
	return TweetResponse{
		ID:      tweet.ID,
		Content: tweet.Content,
		Owner: OwnerResponse{
			ID:       tweet.OwnerID,
			Username: tweet.OwnerUsername,
		},
		CreatedAt: tweet.CreatedAt.Format(time.RFC3339),
		UpdatedAt: tweet.UpdatedAt.Format(time.RFC3339),
	}
}

func toCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:      comment.ID,
		VideoID: comment.VideoID,
		Content: comment.Content,
		Owner: OwnerResponse{
			ID:       comment.OwnerID,
			Username: comment.OwnerUsername,
		},
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		UpdatedAt: comment.UpdatedAt.Format(time.RFC3339),
	}
}

func toChannelProfileResponse(profile *domain.ChannelProfile) ChannelProfileResponse {
	return ChannelProfileResponse{
		ID:                        profile.UserID,
		Username:                  profile.Username,
		FullName:                  profile.FullName,
		Email:                     profile.Email,
		Avatar:                    profile.AvatarURL,
		CoverImage:                profile.CoverImageURL,
		SubscribersCount:          profile.SubscribersCount,
		ChannelsSubscribedToCount: profile.ChannelsSubscribedToCount,
		IsSubscribed:              profile.IsSubscribed,
	}
}

func toWatchHistoryEntry(entry domain.VideoWithOwner) WatchHistoryEntry {
	return WatchHistoryEntry{
		ID:        entry.ID,
		Title:     entry.Title,
		URL:       entry.URL,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		Owner: WatchHistoryOwner{
			Username: entry.OwnerUsername,
			FullName: entry.OwnerFullName,
			Avatar:   entry.OwnerAvatarURL,
		},
	}
}
