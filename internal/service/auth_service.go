package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"viewtube/internal/domain"
	"viewtube/internal/repository"
)

// TokenPair carries a freshly minted access/refresh token couple.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenConfig holds the signing material for both token kinds. Access and
// refresh tokens are signed with distinct secrets so one cannot stand in for
// the other.
type TokenConfig struct {
	Issuer        string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// AuthService owns the credential and session lifecycle: password
// verification, token issuance, rotation, and revocation.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*domain.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, userID int64) error
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	// VerifyAccessToken checks signature and expiry and returns the embedded user id.
	VerifyAccessToken(tokenString string) (int64, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenConfig
}

func NewAuthService(users repository.UserRepository, tokens TokenConfig) AuthService {
	if tokens.Issuer == "" {
		tokens.Issuer = "viewtube"
	}
	return &authService{
		users:  users,
		tokens: tokens,
	}
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*domain.User, TokenPair, error) {
	identifier = strings.TrimSpace(strings.ToLower(identifier))
	// registration trims the password, so verification must too
	password = strings.TrimSpace(password)
	if identifier == "" || password == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: username or email and password are required", ErrValidation)
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, TokenPair{}, ErrUserNotFound
		}
		return nil, TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.mintPair(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}

	// single slot per user: issuing a new pair invalidates any prior refresh token
	if err := s.users.UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return SanitizeUser(user), pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, ErrInvalidToken
	}

	userID, err := parseSubject(refreshToken, s.tokens.RefreshSecret, s.tokens.Issuer)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, err
	}

	if user.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(refreshToken), []byte(user.RefreshToken)) != 1 {
		return TokenPair{}, ErrTokenExpiredOrUsed
	}

	pair, err := s.mintPair(user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	// conditional swap: if another refresh landed between the read above and
	// this write, zero rows change and the presented token counts as used
	swapped, err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("rotate refresh token: %w", err)
	}
	if !swapped {
		return TokenPair{}, ErrTokenExpiredOrUsed
	}

	return pair, nil
}

func (s *authService) Logout(ctx context.Context, userID int64) error {
	err := s.users.ClearRefreshToken(ctx, userID)
	if err != nil && errors.Is(err, repository.ErrNotFound) {
		// logging out an already-deleted account is not an error
		return nil
	}
	return err
}

func (s *authService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: old password and new password are required", ErrValidation)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func (s *authService) VerifyAccessToken(tokenString string) (int64, error) {
	userID, err := parseSubject(tokenString, s.tokens.AccessSecret, s.tokens.Issuer)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func (s *authService) mintPair(userID int64) (TokenPair, error) {
	access, err := mintToken(userID, s.tokens.Issuer, s.tokens.AccessSecret, s.tokens.AccessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint access token: %w", err)
	}
	refresh, err := mintToken(userID, s.tokens.Issuer, s.tokens.RefreshSecret, s.tokens.RefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func mintToken(userID int64, issuer, secret string, ttl time.Duration) (string, error) {
	if secret == "" || ttl <= 0 {
		return "", errors.New("token secret and ttl are required")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		// numeric dates have second precision; the id keeps tokens minted in
		// the same second distinct so rotation can tell old from new
		ID: uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func parseSubject(tokenString, secret, issuer string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return 0, errors.New("token subject missing")
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("parse token subject: %w", err)
	}
	return userID, nil
}

// SanitizeUser strips credential material before a user leaves the service layer.
func SanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clone := *user
	clone.PasswordHash = ""
	clone.RefreshToken = ""
	return &clone
}
