package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"viewtube/internal/repository"
	"viewtube/internal/repository/sqlite"
)

func newUserFixture(t *testing.T) (UserService, repository.UserRepository) {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))
	return NewUserService(users), users
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		FullName: "Alice", Email: "alice@example.com", Username: "alice", Password: "password1",
	})
	require.ErrorIs(t, err, ErrValidation) // avatar missing

	_, err = svc.Register(ctx, RegisterInput{
		FullName: "Alice", Email: "not-an-email", Username: "alice", Password: "password1",
		AvatarURL: "https://cdn.test/a.png",
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{
		FullName: "Alice", Email: "alice@example.com", Username: "alice", Password: "short",
		AvatarURL: "https://cdn.test/a.png",
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterNormalizesAndSanitizes(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		FullName: "Alice", Email: "Alice@Example.com", Username: "AlicE", Password: "password1",
		AvatarURL: "https://cdn.test/a.png",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)
	require.Empty(t, user.PasswordHash)
	require.Empty(t, user.RefreshToken)

	_, err = svc.Register(ctx, RegisterInput{
		FullName: "Imposter", Email: "alice@example.com", Username: "alice2", Password: "password1",
		AvatarURL: "https://cdn.test/b.png",
	})
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUpdateAccount(t *testing.T) {
	svc, users := newUserFixture(t)
	ctx := context.Background()
	registered := registerTestUser(t, users, "alice", "password1")

	_, err := svc.UpdateAccount(ctx, registered.ID, "", "alice@example.com")
	require.ErrorIs(t, err, ErrValidation)

	updated, err := svc.UpdateAccount(ctx, registered.ID, "Alice B", "New@Example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice B", updated.FullName)
	require.Equal(t, "new@example.com", updated.Email)

	_, err = svc.UpdateAccount(ctx, registered.ID+100, "Ghost", "ghost@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}
