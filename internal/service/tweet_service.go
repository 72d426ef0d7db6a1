package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"viewtube/internal/domain"
	"viewtube/internal/repository"
)

// TweetService coordinates tweet operations and enforces owner-only mutation.
type TweetService interface {
	Create(ctx context.Context, ownerID int64, content string) (*domain.Tweet, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Tweet, error)
	Update(ctx context.Context, tweetID, requesterID int64, content string) (*domain.Tweet, error)
	Delete(ctx context.Context, tweetID, requesterID int64) error
}

type tweetService struct {
	tweets repository.TweetRepository
	users  repository.UserRepository
}

func NewTweetService(tweets repository.TweetRepository, users repository.UserRepository) TweetService {
	return &tweetService{
		tweets: tweets,
		users:  users,
	}
}

func (s *tweetService) Create(ctx context.Context, ownerID int64, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: tweet content is required", ErrValidation)
	}

	tweet := &domain.Tweet{
		OwnerID: ownerID,
		Content: content,
	}
	if _, err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *tweetService) ListByUser(ctx context.Context, userID int64) ([]domain.Tweet, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.tweets.ListByOwner(ctx, userID)
}

func (s *tweetService) Update(ctx context.Context, tweetID, requesterID int64, content string) (*domain.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: tweet content is required", ErrValidation)
	}

	tweet, err := s.tweets.Get(ctx, tweetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("tweet: %w", ErrNotFound)
		}
		return nil, err
	}
	// ownership mismatch is forbidden, never not-found
	if tweet.OwnerID != requesterID {
		return nil, ErrForbidden
	}

	if err := s.tweets.UpdateContent(ctx, tweetID, content); err != nil {
		return nil, err
	}
	return s.tweets.Get(ctx, tweetID)
}

func (s *tweetService) Delete(ctx context.Context, tweetID, requesterID int64) error {
	tweet, err := s.tweets.Get(ctx, tweetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("tweet: %w", ErrNotFound)
		}
		return err
	}
	if tweet.OwnerID != requesterID {
		return ErrForbidden
	}
	return s.tweets.Delete(ctx, tweetID)
}
