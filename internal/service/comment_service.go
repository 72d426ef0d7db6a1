package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"viewtube/internal/domain"
	"viewtube/internal/repository"
)

// MaxCommentLength caps comment content size in characters.
const MaxCommentLength = 500

const (
	defaultCommentPage  = 1
	defaultCommentLimit = 10
	maxCommentLimit     = 100
)

// CommentService coordinates comment operations and enforces owner-only mutation.
type CommentService interface {
	ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]domain.Comment, error)
	Create(ctx context.Context, videoID, ownerID int64, content string) (*domain.Comment, error)
	Update(ctx context.Context, commentID, requesterID int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, commentID, requesterID int64) error
}

type commentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
}

func NewCommentService(comments repository.CommentRepository, videos repository.VideoRepository) CommentService {
	return &commentService{
		comments: comments,
		videos:   videos,
	}
}

func (s *commentService) ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]domain.Comment, error) {
	if page < 1 {
		page = defaultCommentPage
	}
	if limit < 1 {
		limit = defaultCommentLimit
	}
	if limit > maxCommentLimit {
		limit = maxCommentLimit
	}

	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}
	return s.comments.ListByVideo(ctx, videoID, (page-1)*limit, limit)
}

func (s *commentService) Create(ctx context.Context, videoID, ownerID int64, content string) (*domain.Comment, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		VideoID: videoID,
		OwnerID: ownerID,
		Content: content,
	}
	if _, err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, commentID, requesterID int64, content string) (*domain.Comment, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.Get(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("comment: %w", ErrNotFound)
		}
		return nil, err
	}
	// ownership mismatch is forbidden, never not-found
	if comment.OwnerID != requesterID {
		return nil, ErrForbidden
	}

	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	return s.comments.Get(ctx, commentID)
}

func (s *commentService) Delete(ctx context.Context, commentID, requesterID int64) error {
	comment, err := s.comments.Get(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("comment: %w", ErrNotFound)
		}
		return err
	}
	if comment.OwnerID != requesterID {
		return ErrForbidden
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *commentService) requireVideo(ctx context.Context, videoID int64) error {
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("video: %w", ErrNotFound)
		}
		return err
	}
	return nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: comment content is required", ErrValidation)
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return "", fmt.Errorf("%w: comment is too long, maximum %d characters allowed", ErrValidation, MaxCommentLength)
	}
	return content, nil
}
