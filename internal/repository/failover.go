package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"talento/internal/database"
	"talento/internal/domain"
	"talento/internal/models"

	"github.com/rs/zerolog"
)

// FailoverBenefitRepository serves from the primary until it errors, then
// falls back to the secondary and probes the primary again after a minute.
type FailoverBenefitRepository struct {
	primary   domain.BenefitRepository
	fallback  domain.BenefitRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverBenefitRepository(primary, fallback domain.BenefitRepository, logger *zerolog.Logger) *FailoverBenefitRepository {
	return &FailoverBenefitRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverBenefitRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]models.Benefit, error) {
	if !r.isDown.Load() {
		benefits, err := r.primary.ListByEmployee(ctx, employeeID)
		if err == nil {
			return benefits, nil
		}
		r.markDown(err)
	}

	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		benefits, err := r.primary.ListByEmployee(ctx, employeeID)
		if err == nil {
			r.isDown.Store(false)
			return benefits, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.ListByEmployee(ctx, employeeID)
}

func (r *FailoverBenefitRepository) Save(ctx context.Context, benefit *models.Benefit) error {
	if !r.isDown.Load() {
		err := r.primary.Save(ctx, benefit)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Save(ctx, benefit)
}

func (r *FailoverBenefitRepository) Delete(ctx context.Context, id int64) error {
	if !r.isDown.Load() {
		err := r.primary.Delete(ctx, id)
		if err == nil || errors.Is(err, database.ErrNotFound) {
			return err
		}
		r.markDown(err)
	}

	return r.fallback.Delete(ctx, id)
}

func (r *FailoverBenefitRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("primary benefit repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}
