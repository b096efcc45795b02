package repository

import (
	"context"
	"time"

	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
)

const trainerCacheTTL = 5 * time.Minute

// CachedTrainerRepository decorates a TrainerRepository with read-through
// caching for the hot member-facing reads. Every write invalidates the
// affected keys; cache failures degrade to the underlying store.
type CachedTrainerRepository struct {
	inner domain.TrainerRepository
	cache *RedisCacheRepository
}

func NewCachedTrainerRepository(inner domain.TrainerRepository, cache *RedisCacheRepository) *CachedTrainerRepository {
	return &CachedTrainerRepository{
		inner: inner,
		cache: cache,
	}
}

func (r *CachedTrainerRepository) GetByID(ctx context.Context, id string) (*domain.Trainer, error) {
	key := trainerDetailKeyPrefix + id

	var cached domain.Trainer
	if err := r.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	trainer, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = r.cache.Set(ctx, key, trainer, trainerCacheTTL)
	return trainer, nil
}

func (r *CachedTrainerRepository) ListActiveByBranch(ctx context.Context, branchID string) ([]*domain.Trainer, error) {
	key := trainerBranchKeyPrefix + branchID

	var cached []*domain.Trainer
	if err := r.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	trainers, err := r.inner.ListActiveByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	_ = r.cache.Set(ctx, key, trainers, trainerCacheTTL)
	return trainers, nil
}

func (r *CachedTrainerRepository) Create(ctx context.Context, trainer *domain.Trainer) error {
	if err := r.inner.Create(ctx, trainer); err != nil {
		return err
	}
	r.invalidate(ctx, trainer.ID, trainer.BranchID)
	return nil
}

func (r *CachedTrainerRepository) Update(ctx context.Context, trainer *domain.Trainer) error {
	if err := r.inner.Update(ctx, trainer); err != nil {
		return err
	}
	r.invalidate(ctx, trainer.ID, trainer.BranchID)
	return nil
}

func (r *CachedTrainerRepository) ApplyRating(ctx context.Context, id string, rate float64) error {
	if err := r.inner.ApplyRating(ctx, id, rate); err != nil {
		return err
	}
	r.invalidate(ctx, id, "")
	return nil
}

func (r *CachedTrainerRepository) DeactivateByBranch(ctx context.Context, branchID string) (int64, error) {
	n, err := r.inner.DeactivateByBranch(ctx, branchID)
	if err != nil {
		return 0, err
	}
	_ = r.cache.DeleteByPattern(ctx, trainerDetailKeyPrefix+"*")
	r.invalidate(ctx, "", branchID)
	return n, nil
}

func (r *CachedTrainerRepository) DeleteByBranch(ctx context.Context, branchID string) error {
	if err := r.inner.DeleteByBranch(ctx, branchID); err != nil {
		return err
	}
	_ = r.cache.DeleteByPattern(ctx, trainerDetailKeyPrefix+"*")
	r.invalidate(ctx, "", branchID)
	return nil
}

func (r *CachedTrainerRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id, "")
	_ = r.cache.DeleteByPattern(ctx, trainerBranchKeyPrefix+"*")
	return nil
}

// Pass-throughs. Search and auth lookups must never serve stale entries.

func (r *CachedTrainerRepository) GetByUserName(ctx context.Context, userName string) (*domain.Trainer, error) {
	return r.inner.GetByUserName(ctx, userName)
}

func (r *CachedTrainerRepository) GetByPhone(ctx context.Context, phone string) (*domain.Trainer, error) {
	return r.inner.GetByPhone(ctx, phone)
}

func (r *CachedTrainerRepository) ListActive(ctx context.Context, opts domain.ListOptions) ([]*domain.Trainer, error) {
	return r.inner.ListActive(ctx, opts)
}

func (r *CachedTrainerRepository) Search(ctx context.Context, f domain.TrainerSearch) ([]*domain.Trainer, error) {
	return r.inner.Search(ctx, f)
}

func (r *CachedTrainerRepository) invalidate(ctx context.Context, trainerID, branchID string) {
	keys := []string{trainerListKey}
	if trainerID != "" {
		keys = append(keys, trainerDetailKeyPrefix+trainerID)
	}
	if branchID != "" {
		keys = append(keys, trainerBranchKeyPrefix+branchID)
	}
	_ = r.cache.Delete(ctx, keys...)
}
