package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"viewtube/internal/domain"
	"viewtube/internal/repository"
)

const createTweetsTable = `
CREATE TABLE IF NOT EXISTS tweets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type TweetRepository struct {
	db *sql.DB
}

func NewTweetRepository(db *sql.DB) repository.TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTweetsTable); err != nil {
		return fmt.Errorf("create tweets table: %w", err)
	}
	return nil
}

func (r *TweetRepository) Create(ctx context.Context, tweet *domain.Tweet) (int64, error) {
	now := time.Now().UTC()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO tweets (owner_id, content, created_at, updated_at)
VALUES (?, ?, ?, ?)`,
		tweet.OwnerID,
		tweet.Content,
		tweet.CreatedAt,
		tweet.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert tweet: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("tweet last insert id: %w", err)
	}
	tweet.ID = id
	return id, nil
}

func (r *TweetRepository) Get(ctx context.Context, id int64) (*domain.Tweet, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, content, created_at, updated_at
FROM tweets
WHERE id = ?`,
		id,
	)

	var tweet domain.Tweet
	if err := row.Scan(
		&tweet.ID,
		&tweet.OwnerID,
		&tweet.Content,
		&tweet.CreatedAt,
		&tweet.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tweet: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan tweet: %w", err)
	}
	return &tweet, nil
}

func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Tweet, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT t.id, t.owner_id, t.content, t.created_at, t.updated_at, u.username
FROM tweets t
JOIN users u ON u.id = t.owner_id
WHERE t.owner_id = ?
ORDER BY t.created_at DESC, t.id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tweets: %w", err)
	}
	defer rows.Close()

	var tweets []domain.Tweet
	for rows.Next() {
		var tweet domain.Tweet
		if err := rows.Scan(
			&tweet.ID,
			&tweet.OwnerID,
			&tweet.Content,
			&tweet.CreatedAt,
			&tweet.UpdatedAt,
			&tweet.OwnerUsername,
		); err != nil {
			return nil, fmt.Errorf("scan tweet: %w", err)
		}
		tweets = append(tweets, tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tweets: %w", err)
	}
	return tweets, nil
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE tweets SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update tweet: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update tweet rows affected: %w", err)
	} else if affected == 0 {
		return fmt.Errorf("update tweet: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *TweetRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tweets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete tweet rows affected: %w", err)
	} else if affected == 0 {
		return fmt.Errorf("delete tweet: %w", repository.ErrNotFound)
	}
	return nil
}
