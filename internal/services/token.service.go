package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/platformbuilds/mirador-console/internal/models"
	"github.com/platformbuilds/mirador-console/internal/repo"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// ErrInvalidToken is returned for token updates that break the token
// constraints.
var ErrInvalidToken = errors.New("invalid token parameters")

// TokenService updates and regenerates API tokens.
type TokenService struct {
	tokens   repo.TokenRepo
	users    repo.UserRepo
	validate *validator.Validate
	logger   logger.Logger
}

func NewTokenService(tokens repo.TokenRepo, users repo.UserRepo, log logger.Logger) *TokenService {
	v := validator.New()
	v.SetTagName("binding")
	return &TokenService{tokens: tokens, users: users, validate: v, logger: log}
}

// Get returns a token by ID.
func (s *TokenService) Get(ctx context.Context, tokenID string) (*models.Token, error) {
	return s.tokens.GetToken(ctx, tokenID)
}

// Update applies u to the stored token and returns its ID.
func (s *TokenService) Update(ctx context.Context, u models.TokenUpdate) (string, error) {
	if err := s.validate.Struct(u); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	tok, err := s.tokens.GetToken(ctx, u.TokenID)
	if err != nil {
		return "", err
	}
	tok.Apply(u)
	if err := s.tokens.SaveToken(ctx, tok); err != nil {
		s.logger.Error("Token update failed", "tokenid", u.TokenID, "error", err)
		return "", err
	}

	s.logger.Info("Token updated", "tokenid", u.TokenID, "status", u.Status, "expires_at", u.ExpiresAt)
	return tok.TokenID, nil
}

// Generate replaces the token secret and returns the new one. Only its
// hash is stored.
func (s *TokenService) Generate(ctx context.Context, tokenID string) (string, error) {
	tok, err := s.tokens.GetToken(ctx, tokenID)
	if err != nil {
		return "", err
	}
	secret, err := models.GenerateTokenSecret()
	if err != nil {
		return "", err
	}
	tok.TokenHash = models.HashTokenSecret(secret)
	tok.CreatedAt = time.Now().Unix()
	if err := s.tokens.SaveToken(ctx, tok); err != nil {
		return "", err
	}

	s.logger.Info("Token secret regenerated", "tokenid", tokenID)
	return secret, nil
}

// Owner returns the user a token belongs to. current is returned without a
// lookup when it is the owner.
func (s *TokenService) Owner(ctx context.Context, tok *models.Token, current *models.User) (*models.User, error) {
	if current != nil && current.UserID == tok.UserID {
		return current, nil
	}
	return s.users.GetUser(ctx, tok.UserID)
}
