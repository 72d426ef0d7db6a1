package repository

import (
	"context"

	"viewtube/internal/domain"
)

// TweetRepository defines persistence operations for Tweet entities.
type TweetRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, tweet *domain.Tweet) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Tweet, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Tweet, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}
