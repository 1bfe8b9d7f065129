package repo

import (
	"context"

	"github.com/platformbuilds/mirador-console/internal/models"
	"github.com/platformbuilds/mirador-console/pkg/cache"
)

// UserRepo stores console users.
type UserRepo interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
}

type cacheUserRepo struct {
	store kvStore[models.User]
}

func NewUserRepo(c cache.Cache) UserRepo {
	return &cacheUserRepo{store: kvStore[models.User]{c: c, prefix: "user"}}
}

func (r *cacheUserRepo) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return r.store.get(ctx, userID)
}

func (r *cacheUserRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.store.put(ctx, u.UserID, u)
}
