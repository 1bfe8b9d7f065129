package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/platformbuilds/mirador-console/internal/models"
	"github.com/platformbuilds/mirador-console/internal/repo"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// CorrelationService applies mass actions to event correlations. Every
// action is all-or-nothing: the IDs are resolved before anything changes
// and earlier writes are undone when a later one fails.
type CorrelationService struct {
	repo   repo.CorrelationRepo
	logger logger.Logger
}

func NewCorrelationService(r repo.CorrelationRepo, log logger.Logger) *CorrelationService {
	return &CorrelationService{repo: r, logger: log}
}

func (s *CorrelationService) load(ctx context.Context, ids []string) ([]*models.Correlation, error) {
	out := make([]*models.Correlation, 0, len(ids))
	for _, id := range ids {
		c, err := s.repo.GetCorrelation(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// SetStatus enables or disables the given correlations. When a save fails
// the correlations already written get their previous status back.
func (s *CorrelationService) SetStatus(ctx context.Context, ids []string, status int) error {
	items, err := s.load(ctx, ids)
	if err != nil {
		return err
	}
	for i, c := range items {
		updated := *c
		updated.Status = status
		if err := s.repo.SaveCorrelation(ctx, &updated); err != nil {
			s.logger.Error("Correlation status update failed", "correlationid", c.CorrelationID, "error", err)
			return errors.Join(err, s.restore(ctx, items[:i]))
		}
	}
	s.logger.Info("Correlation status updated", "count", len(items), "status", status)
	return nil
}

// Delete removes the given correlations. When a delete fails the
// correlations already removed are stored again.
func (s *CorrelationService) Delete(ctx context.Context, ids []string) error {
	items, err := s.load(ctx, ids)
	if err != nil {
		return err
	}
	for i, c := range items {
		if err := s.repo.DeleteCorrelation(ctx, c.CorrelationID); err != nil {
			s.logger.Error("Correlation delete failed", "correlationid", c.CorrelationID, "error", err)
			return errors.Join(err, s.restore(ctx, items[:i]))
		}
	}
	s.logger.Info("Correlations deleted", "count", len(ids))
	return nil
}

// restore writes back the loaded originals.
func (s *CorrelationService) restore(ctx context.Context, originals []*models.Correlation) error {
	var errs []error
	for _, c := range originals {
		if err := s.repo.SaveCorrelation(ctx, c); err != nil {
			s.logger.Error("Correlation rollback failed", "correlationid", c.CorrelationID, "error", err)
			errs = append(errs, fmt.Errorf("failed to restore correlation %s: %w", c.CorrelationID, err))
		}
	}
	return errors.Join(errs...)
}
