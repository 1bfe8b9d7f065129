package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/platformbuilds/mirador-console/pkg/cache"
)

// PagerRepo remembers the list page each user last viewed per action, so
// that redirects back to a list land on the same page.
type PagerRepo interface {
	LoadPage(ctx context.Context, userID, action string) (int, error)
	SavePage(ctx context.Context, userID, action string, page int) error
}

type cachePagerRepo struct {
	c   cache.Cache
	ttl time.Duration
}

// NewPagerRepo keeps remembered pages for ttl.
func NewPagerRepo(c cache.Cache, ttl time.Duration) PagerRepo {
	return &cachePagerRepo{c: c, ttl: ttl}
}

func pageKey(userID, action string) string {
	return "page:" + userID + ":" + action
}

// LoadPage returns the remembered page, or 1 when none is stored.
func (r *cachePagerRepo) LoadPage(ctx context.Context, userID, action string) (int, error) {
	b, err := r.c.Get(ctx, pageKey(userID, action))
	if errors.Is(err, cache.ErrNotFound) {
		return 1, nil
	}
	if err != nil {
		return 1, fmt.Errorf("failed to load page of %s: %w", action, err)
	}
	page, err := strconv.Atoi(string(b))
	if err != nil || page < 1 {
		return 1, nil
	}
	return page, nil
}

func (r *cachePagerRepo) SavePage(ctx context.Context, userID, action string, page int) error {
	if page < 1 {
		page = 1
	}
	return r.c.Set(ctx, pageKey(userID, action), strconv.Itoa(page), r.ttl)
}
