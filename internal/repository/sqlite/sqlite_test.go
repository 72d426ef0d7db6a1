package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"viewtube/internal/domain"
	"viewtube/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))
	require.NoError(t, NewVideoRepository(db).Init(ctx))
	require.NoError(t, NewSubscriptionRepository(db).Init(ctx))
	require.NoError(t, NewTweetRepository(db).Init(ctx))
	require.NoError(t, NewCommentRepository(db).Init(ctx))
	return db
}

func seedUser(t *testing.T, db *sql.DB, username string) *domain.User {
	t.Helper()

	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test " + username,
		PasswordHash: "hash",
		AvatarURL:    "https://cdn.test/" + username + ".png",
	}
	_, err := NewUserRepository(db).Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func seedVideo(t *testing.T, db *sql.DB, ownerID int64, title string) *domain.Video {
	t.Helper()

	video := &domain.Video{
		OwnerID: ownerID,
		Title:   title,
		URL:     "https://cdn.test/videos/" + title,
	}
	_, err := NewVideoRepository(db).Create(context.Background(), video)
	require.NoError(t, err)
	return video
}

func TestUserRepositoryCreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	require.NotZero(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByUsernameOrEmail(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByUsernameOrEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByUsernameOrEmail(ctx, "nobody")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	seedUser(t, db, "alice")

	_, err := repo.Create(context.Background(), &domain.User{
		Username:     "alice",
		Email:        "other@example.com",
		FullName:     "Other",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestUserRepositoryRotateRefreshToken(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "alice")

	require.NoError(t, repo.UpdateRefreshToken(ctx, user.ID, "token-1"))

	swapped, err := repo.RotateRefreshToken(ctx, user.ID, "token-1", "token-2")
	require.NoError(t, err)
	require.True(t, swapped)

	// the old value no longer matches the slot
	swapped, err = repo.RotateRefreshToken(ctx, user.ID, "token-1", "token-3")
	require.NoError(t, err)
	require.False(t, swapped)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "token-2", stored.RefreshToken)

	require.NoError(t, repo.ClearRefreshToken(ctx, user.ID))
	stored, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, stored.RefreshToken)
}

func TestUserRepositoryChannelProfile(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	subs := NewSubscriptionRepository(db)
	ctx := context.Background()

	channel := seedUser(t, db, "channel")
	fan1 := seedUser(t, db, "fan1")
	fan2 := seedUser(t, db, "fan2")

	_, err := subs.Create(ctx, &domain.Subscription{SubscriberID: fan1.ID, ChannelID: channel.ID})
	require.NoError(t, err)
	_, err = subs.Create(ctx, &domain.Subscription{SubscriberID: fan2.ID, ChannelID: channel.ID})
	require.NoError(t, err)
	_, err = subs.Create(ctx, &domain.Subscription{SubscriberID: channel.ID, ChannelID: fan1.ID})
	require.NoError(t, err)

	profile, err := users.ChannelProfile(ctx, "channel", fan1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), profile.SubscribersCount)
	require.Equal(t, int64(1), profile.ChannelsSubscribedToCount)
	require.True(t, profile.IsSubscribed)

	outsider := seedUser(t, db, "outsider")
	profile, err = users.ChannelProfile(ctx, "channel", outsider.ID)
	require.NoError(t, err)
	require.False(t, profile.IsSubscribed)

	_, err = users.ChannelProfile(ctx, "ghost", fan1.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryWatchHistoryOrder(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "creator")
	viewer := seedUser(t, db, "viewer")
	first := seedVideo(t, db, owner.ID, "first")
	second := seedVideo(t, db, owner.ID, "second")

	require.NoError(t, users.AppendWatchHistory(ctx, viewer.ID, first.ID))
	require.NoError(t, users.AppendWatchHistory(ctx, viewer.ID, second.ID))

	history, err := users.WatchHistory(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "second", history[0].Title)
	require.Equal(t, "creator", history[0].OwnerUsername)

	// re-watching is idempotent on length
	require.NoError(t, users.AppendWatchHistory(ctx, viewer.ID, first.ID))
	history, err = users.WatchHistory(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestTweetRepositoryCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewTweetRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "alice")

	tweet := &domain.Tweet{OwnerID: user.ID, Content: "hello"}
	_, err := repo.Create(ctx, tweet)
	require.NoError(t, err)

	listed, err := repo.ListByOwner(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "alice", listed[0].OwnerUsername)

	require.NoError(t, repo.UpdateContent(ctx, tweet.ID, "edited"))
	got, err := repo.Get(ctx, tweet.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", got.Content)

	require.NoError(t, repo.Delete(ctx, tweet.ID))
	_, err = repo.Get(ctx, tweet.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, tweet.ID), repository.ErrNotFound)
}

func TestCommentRepositoryPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	video := seedVideo(t, db, user.ID, "clip")

	for i := 0; i < 7; i++ {
		_, err := repo.Create(ctx, &domain.Comment{
			VideoID: video.ID,
			OwnerID: user.ID,
			Content: "comment",
		})
		require.NoError(t, err)
	}

	page1, err := repo.ListByVideo(ctx, video.ID, 0, 5)
	require.NoError(t, err)
	require.Len(t, page1, 5)
	require.Equal(t, "alice", page1[0].OwnerUsername)

	page2, err := repo.ListByVideo(ctx, video.ID, 5, 5)
	require.NoError(t, err)
	require.Len(t, page2, 2)

	// newest first, stable across pages
	require.Greater(t, page1[0].ID, page1[4].ID)
	require.Greater(t, page1[4].ID, page2[0].ID)
}

func TestSubscriptionRepositoryUniqueEdge(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	fan := seedUser(t, db, "fan")
	channel := seedUser(t, db, "channel")

	_, err := repo.Create(ctx, &domain.Subscription{SubscriberID: fan.ID, ChannelID: channel.ID})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Subscription{SubscriberID: fan.ID, ChannelID: channel.ID})
	require.ErrorIs(t, err, repository.ErrConflict)

	subscribed, err := repo.IsSubscribed(ctx, fan.ID, channel.ID)
	require.NoError(t, err)
	require.True(t, subscribed)

	count, err := repo.CountSubscribers(ctx, channel.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, fan.ID, channel.ID))
	subscribed, err = repo.IsSubscribed(ctx, fan.ID, channel.ID)
	require.NoError(t, err)
	require.False(t, subscribed)
}
