// Package repo persists console objects in the key/value cache.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/platformbuilds/mirador-console/pkg/cache"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// kvStore keeps JSON documents of one kind under "<prefix>:<id>".
type kvStore[T any] struct {
	c      cache.Cache
	prefix string
}

func (s kvStore[T]) key(id string) string {
	return s.prefix + ":" + id
}

func (s kvStore[T]) get(ctx context.Context, id string) (*T, error) {
	var v T
	if err := cache.GetJSON(ctx, s.c, s.key(id), &v); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, s.prefix, id)
		}
		return nil, fmt.Errorf("failed to load %s %s: %w", s.prefix, id, err)
	}
	return &v, nil
}

func (s kvStore[T]) put(ctx context.Context, id string, v *T) error {
	if err := s.c.Set(ctx, s.key(id), v, cache.NoExpiry); err != nil {
		return fmt.Errorf("failed to store %s %s: %w", s.prefix, id, err)
	}
	return nil
}

func (s kvStore[T]) delete(ctx context.Context, id string) error {
	if err := s.c.Delete(ctx, s.key(id)); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", s.prefix, id, err)
	}
	return nil
}
