package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"viewtube/internal/domain"
	"viewtube/internal/repository"
	"viewtube/internal/repository/sqlite"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Issuer:        "viewtube-test",
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func newAuthFixture(t *testing.T) (AuthService, repository.UserRepository, *sql.DB) {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))

	return NewAuthService(users, testTokenConfig()), users, db
}

func registerTestUser(t *testing.T, users repository.UserRepository, username, password string) *domain.User {
	t.Helper()

	svc := NewUserService(users)
	user, err := svc.Register(context.Background(), RegisterInput{
		FullName:  "Test " + username,
		Email:     username + "@example.com",
		Username:  username,
		Password:  password,
		AvatarURL: "https://cdn.test/" + username + ".png",
	})
	require.NoError(t, err)
	return user
}

func TestLoginIssuesMatchingTokenPair(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	registered := registerTestUser(t, users, "alice", "correct-horse")

	user, pair, err := auth.Login(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// sanitized: no credential material leaves the service
	require.Empty(t, user.PasswordHash)
	require.Empty(t, user.RefreshToken)

	accessID, err := auth.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, registered.ID, accessID)

	cfg := testTokenConfig()
	refreshID, err := parseSubject(pair.RefreshToken, cfg.RefreshSecret, cfg.Issuer)
	require.NoError(t, err)
	require.Equal(t, accessID, refreshID)

	// refresh token persisted verbatim in the single slot
	stored, err := users.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestLoginDistinguishesUnknownUserFromBadPassword(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	registerTestUser(t, users, "alice", "correct-horse")

	_, _, err := auth.Login(context.Background(), "ghost", "whatever1")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, _, err = auth.Login(context.Background(), "alice", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginAcceptsPaddedPassword(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	ctx := context.Background()

	svc := NewUserService(users)
	registered, err := svc.Register(ctx, RegisterInput{
		FullName:  "Alice",
		Email:     "alice@example.com",
		Username:  "alice",
		Password:  "  correct-horse  ",
		AvatarURL: "https://cdn.test/alice.png",
	})
	require.NoError(t, err)

	// registration trimmed the password, so both spellings authenticate
	_, _, err = auth.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	_, _, err = auth.Login(ctx, "alice", "  correct-horse  ")
	require.NoError(t, err)

	require.NoError(t, auth.ChangePassword(ctx, registered.ID, "  correct-horse  ", "new-password"))
	_, _, err = auth.Login(ctx, "alice", "new-password")
	require.NoError(t, err)
}

func TestRefreshRotatesAndRejectsReuse(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	registerTestUser(t, users, "alice", "correct-horse")
	ctx := context.Background()

	_, pair, err := auth.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	rotated, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// the consumed token is dead
	_, err = auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenExpiredOrUsed)

	// the fresh one works
	_, err = auth.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsGarbageAndWrongSecret(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	registerTestUser(t, users, "alice", "correct-horse")
	ctx := context.Background()

	_, err := auth.Refresh(ctx, "")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.Refresh(ctx, "not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	// an access token must not pass as a refresh token
	_, pair, err := auth.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	_, err = auth.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	registered := registerTestUser(t, users, "alice", "correct-horse")
	ctx := context.Background()

	_, pair, err := auth.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, registered.ID))

	stored, err := users.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	require.Empty(t, stored.RefreshToken)

	_, err = auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenExpiredOrUsed)

	// logout is idempotent
	require.NoError(t, auth.Logout(ctx, registered.ID))
}

func TestChangePassword(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	registered := registerTestUser(t, users, "alice", "correct-horse")
	ctx := context.Background()

	err := auth.ChangePassword(ctx, registered.ID, "wrong-password", "new-password")
	require.ErrorIs(t, err, ErrWrongPassword)

	err = auth.ChangePassword(ctx, registered.ID, "correct-horse", "short")
	require.ErrorIs(t, err, ErrValidation)

	// issue a session before the change; it must survive
	_, pair, err := auth.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, auth.ChangePassword(ctx, registered.ID, "correct-horse", "new-password"))

	_, _, err = auth.Login(ctx, "alice", "correct-horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "alice", "new-password")
	require.NoError(t, err)

	_, err = auth.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	cfg := testTokenConfig()

	now := time.Now().Add(-time.Hour)
	claims := &jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		Subject:   "1",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
	require.NoError(t, err)

	_, err = auth.VerifyAccessToken(expired)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessTokenRejectsWrongIssuer(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	cfg := testTokenConfig()

	token, err := mintToken(7, "someone-else", cfg.AccessSecret, time.Minute)
	require.NoError(t, err)

	_, err = auth.VerifyAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
