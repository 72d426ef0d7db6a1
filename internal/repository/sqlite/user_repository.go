package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"viewtube/internal/domain"
	"viewtube/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	avatar_url TEXT NOT NULL DEFAULT '',
	cover_image_url TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createWatchHistoryTable = `
CREATE TABLE IF NOT EXISTS watch_history (
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	video_id INTEGER NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
	watched_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, video_id)
);
`

const userColumns = `id, username, email, full_name, password_hash, avatar_url, cover_image_url, refresh_token, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createWatchHistoryTable); err != nil {
		return fmt.Errorf("create watch history table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, email, full_name, password_hash, avatar_url, cover_image_url, refresh_token, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.AvatarURL,
		user.CoverImageURL,
		user.RefreshToken,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("insert user: %w", repository.ErrConflict)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE username = ? OR email = ?`,
		identifier,
		identifier,
	)
	return scanUser(row)
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id int64, token string) error {
	return r.exec(ctx, "update refresh token", `
UPDATE users SET refresh_token = ?, updated_at = ? WHERE id = ?`,
		token, time.Now().UTC(), id)
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, id int64, current, next string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET refresh_token = ?, updated_at = ?
WHERE id = ? AND refresh_token = ?`,
		next, time.Now().UTC(), id, current)
	if err != nil {
		return false, fmt.Errorf("rotate refresh token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rotate refresh token rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id int64) error {
	return r.exec(ctx, "clear refresh token", `
UPDATE users SET refresh_token = '', updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, "update password", `
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
}

func (r *UserRepository) UpdateAccount(ctx context.Context, id int64, fullName, email string) error {
	return r.exec(ctx, "update account", `
UPDATE users SET full_name = ?, email = ?, updated_at = ? WHERE id = ?`,
		fullName, email, time.Now().UTC(), id)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	return r.exec(ctx, "update avatar", `
UPDATE users SET avatar_url = ?, updated_at = ? WHERE id = ?`,
		avatarURL, time.Now().UTC(), id)
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id int64, coverImageURL string) error {
	return r.exec(ctx, "update cover image", `
UPDATE users SET cover_image_url = ?, updated_at = ? WHERE id = ?`,
		coverImageURL, time.Now().UTC(), id)
}

// ChannelProfile resolves a channel by username together with subscriber
// counts and whether the viewer subscribes to it.
func (r *UserRepository) ChannelProfile(ctx context.Context, username string, viewerID int64) (*domain.ChannelProfile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT
	u.id,
	u.username,
	u.full_name,
	u.email,
	u.avatar_url,
	u.cover_image_url,
	(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
	(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
	EXISTS(SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = ?)
FROM users u
WHERE u.username = ?`,
		viewerID,
		username,
	)

	var profile domain.ChannelProfile
	if err := row.Scan(
		&profile.UserID,
		&profile.Username,
		&profile.FullName,
		&profile.Email,
		&profile.AvatarURL,
		&profile.CoverImageURL,
		&profile.SubscribersCount,
		&profile.ChannelsSubscribedToCount,
		&profile.IsSubscribed,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("channel %q: %w", username, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan channel profile: %w", err)
	}
	return &profile, nil
}

func (r *UserRepository) WatchHistory(ctx context.Context, userID int64) ([]domain.VideoWithOwner, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT v.id, v.owner_id, v.title, v.url, v.created_at, o.username, o.full_name, o.avatar_url
FROM watch_history wh
JOIN videos v ON v.id = wh.video_id
JOIN users o ON o.id = v.owner_id
WHERE wh.user_id = ?
ORDER BY wh.watched_at DESC, v.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	var history []domain.VideoWithOwner
	for rows.Next() {
		var entry domain.VideoWithOwner
		if err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.Title,
			&entry.URL,
			&entry.CreatedAt,
			&entry.OwnerUsername,
			&entry.OwnerFullName,
			&entry.OwnerAvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan watch history entry: %w", err)
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}
	return history, nil
}

func (r *UserRepository) AppendWatchHistory(ctx context.Context, userID, videoID int64) error {
	// re-watching a video moves it to the front of the history
	return r.exec(ctx, "append watch history", `
INSERT INTO watch_history (user_id, video_id, watched_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id, video_id) DO UPDATE SET watched_at = excluded.watched_at`,
		userID, videoID, time.Now().UTC())
}

func (r *UserRepository) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}
