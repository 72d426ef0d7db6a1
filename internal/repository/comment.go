package repository

import (
	"context"

	"viewtube/internal/domain"
)

// CommentRepository defines persistence operations for Comment entities.
type CommentRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Comment, error)
	// ListByVideo returns a page of comments for a video, newest first,
	// with the owner's username populated.
	ListByVideo(ctx context.Context, videoID int64, offset, limit int) ([]domain.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}
