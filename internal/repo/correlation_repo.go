package repo

import (
	"context"

	"github.com/platformbuilds/mirador-console/internal/models"
	"github.com/platformbuilds/mirador-console/pkg/cache"
)

// CorrelationRepo stores event correlations.
type CorrelationRepo interface {
	GetCorrelation(ctx context.Context, id string) (*models.Correlation, error)
	SaveCorrelation(ctx context.Context, c *models.Correlation) error
	DeleteCorrelation(ctx context.Context, id string) error
}

type cacheCorrelationRepo struct {
	store kvStore[models.Correlation]
}

func NewCorrelationRepo(c cache.Cache) CorrelationRepo {
	return &cacheCorrelationRepo{store: kvStore[models.Correlation]{c: c, prefix: "correlation"}}
}

func (r *cacheCorrelationRepo) GetCorrelation(ctx context.Context, id string) (*models.Correlation, error) {
	return r.store.get(ctx, id)
}

func (r *cacheCorrelationRepo) SaveCorrelation(ctx context.Context, c *models.Correlation) error {
	return r.store.put(ctx, c.CorrelationID, c)
}

func (r *cacheCorrelationRepo) DeleteCorrelation(ctx context.Context, id string) error {
	return r.store.delete(ctx, id)
}
