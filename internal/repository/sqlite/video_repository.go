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

const createVideosTable = `
CREATE TABLE IF NOT EXISTS videos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
`

type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) repository.VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createVideosTable); err != nil {
		return fmt.Errorf("create videos table: %w", err)
	}
	return nil
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) (int64, error) {
	video.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO videos (owner_id, title, url, created_at)
VALUES (?, ?, ?, ?)`,
		video.OwnerID,
		video.Title,
		video.URL,
		video.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert video: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("video last insert id: %w", err)
	}
	video.ID = id
	return id, nil
}

func (r *VideoRepository) Get(ctx context.Context, id int64) (*domain.Video, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, title, url, created_at
FROM videos
WHERE id = ?`,
		id,
	)

	var video domain.Video
	if err := row.Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.URL,
		&video.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("video: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan video: %w", err)
	}
	return &video, nil
}
