package repository

import (
	"context"

	"viewtube/internal/domain"
)

// VideoRepository defines persistence operations for Video entities. Videos
// have no HTTP write path in this service; Create exists for out-of-band
// ingestion and tests.
type VideoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, video *domain.Video) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Video, error)
}
