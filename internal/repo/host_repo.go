package repo

import (
	"context"

	"github.com/platformbuilds/mirador-console/internal/models"
	"github.com/platformbuilds/mirador-console/pkg/cache"
)

// HostRepo stores hosts.
type HostRepo interface {
	GetHost(ctx context.Context, hostID string) (*models.Host, error)
	SaveHost(ctx context.Context, h *models.Host) error
}

type cacheHostRepo struct {
	store kvStore[models.Host]
}

func NewHostRepo(c cache.Cache) HostRepo {
	return &cacheHostRepo{store: kvStore[models.Host]{c: c, prefix: "host"}}
}

func (r *cacheHostRepo) GetHost(ctx context.Context, hostID string) (*models.Host, error) {
	return r.store.get(ctx, hostID)
}

func (r *cacheHostRepo) SaveHost(ctx context.Context, h *models.Host) error {
	return r.store.put(ctx, h.HostID, h)
}
