package repo

import (
	"context"

	"github.com/platformbuilds/mirador-console/internal/models"
	"github.com/platformbuilds/mirador-console/pkg/cache"
)

// TokenRepo stores API tokens.
type TokenRepo interface {
	GetToken(ctx context.Context, tokenID string) (*models.Token, error)
	SaveToken(ctx context.Context, t *models.Token) error
}

type cacheTokenRepo struct {
	store kvStore[models.Token]
}

func NewTokenRepo(c cache.Cache) TokenRepo {
	return &cacheTokenRepo{store: kvStore[models.Token]{c: c, prefix: "token"}}
}

func (r *cacheTokenRepo) GetToken(ctx context.Context, tokenID string) (*models.Token, error) {
	return r.store.get(ctx, tokenID)
}

func (r *cacheTokenRepo) SaveToken(ctx context.Context, t *models.Token) error {
	return r.store.put(ctx, t.TokenID, t)
}
