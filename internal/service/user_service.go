package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"viewtube/internal/domain"
	"viewtube/internal/repository"
)

// RegisterInput carries the validated registration payload. Media URLs are
// produced by the upload bridge before the service is called.
type RegisterInput struct {
	FullName      string
	Email         string
	Username      string
	Password      string
	AvatarURL     string
	CoverImageURL string
}

// UserService describes account lifecycle and profile operations.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateAccount(ctx context.Context, id int64, fullName, email string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, id int64, avatarURL string) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, id int64, coverImageURL string) (*domain.User, error)
	ChannelProfile(ctx context.Context, username string, viewerID int64) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID int64) ([]domain.VideoWithOwner, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	username := strings.TrimSpace(strings.ToLower(input.Username))
	password := strings.TrimSpace(input.Password)

	if fullName == "" || email == "" || username == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if input.AvatarURL == "" {
		return nil, fmt.Errorf("%w: avatar is required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		PasswordHash:  string(hash),
		AvatarURL:     input.AvatarURL,
		CoverImageURL: input.CoverImageURL,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return SanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return SanitizeUser(user), nil
}

func (s *userService) UpdateAccount(ctx context.Context, id int64, fullName, email string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(strings.ToLower(email))
	if fullName == "" || email == "" {
		return nil, fmt.Errorf("%w: full name and email are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	if err := s.users.UpdateAccount(ctx, id, fullName, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *userService) UpdateAvatar(ctx context.Context, id int64, avatarURL string) (*domain.User, error) {
	if avatarURL == "" {
		return nil, fmt.Errorf("%w: avatar url is required", ErrValidation)
	}
	if err := s.users.UpdateAvatar(ctx, id, avatarURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *userService) UpdateCoverImage(ctx context.Context, id int64, coverImageURL string) (*domain.User, error) {
	if coverImageURL == "" {
		return nil, fmt.Errorf("%w: cover image url is required", ErrValidation)
	}
	if err := s.users.UpdateCoverImage(ctx, id, coverImageURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *userService) ChannelProfile(ctx context.Context, username string, viewerID int64) (*domain.ChannelProfile, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}

	profile, err := s.users.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("channel: %w", ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

func (s *userService) WatchHistory(ctx context.Context, userID int64) ([]domain.VideoWithOwner, error) {
	return s.users.WatchHistory(ctx, userID)
}
