package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTrainerRepo records how often each read path reaches the backing
// store so tests can tell cache hits from misses.
type countingTrainerRepo struct {
	trainers    map[string]*domain.Trainer
	getCalls    int
	branchCalls int
}

func newCountingTrainerRepo() *countingTrainerRepo {
	return &countingTrainerRepo{trainers: make(map[string]*domain.Trainer)}
}

func (r *countingTrainerRepo) Create(ctx context.Context, t *domain.Trainer) error {
	r.trainers[t.ID] = t
	return nil
}

func (r *countingTrainerRepo) GetByID(ctx context.Context, id string) (*domain.Trainer, error) {
	r.getCalls++
	t, ok := r.trainers[id]
	if !ok {
		return nil, domain.ErrTrainerNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *countingTrainerRepo) GetByUserName(ctx context.Context, userName string) (*domain.Trainer, error) {
	for _, t := range r.trainers {
		if t.UserName == userName {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTrainerNotFound
}

func (r *countingTrainerRepo) GetByPhone(ctx context.Context, phone string) (*domain.Trainer, error) {
	for _, t := range r.trainers {
		if t.PhoneNumber == phone {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTrainerNotFound
}

func (r *countingTrainerRepo) ListActive(ctx context.Context, opts domain.ListOptions) ([]*domain.Trainer, error) {
	var out []*domain.Trainer
	for _, t := range r.trainers {
		if t.IsActive {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *countingTrainerRepo) ListActiveByBranch(ctx context.Context, branchID string) ([]*domain.Trainer, error) {
	r.branchCalls++
	var out []*domain.Trainer
	for _, t := range r.trainers {
		if t.IsActive && t.BranchID == branchID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *countingTrainerRepo) Search(ctx context.Context, f domain.TrainerSearch) ([]*domain.Trainer, error) {
	return nil, nil
}

func (r *countingTrainerRepo) Update(ctx context.Context, t *domain.Trainer) error {
	r.trainers[t.ID] = t
	return nil
}

func (r *countingTrainerRepo) ApplyRating(ctx context.Context, id string, rate float64) error {
	t, ok := r.trainers[id]
	if !ok {
		return domain.ErrTrainerNotFound
	}
	t.Rate = (t.Rate*float64(t.RateCount) + rate) / float64(t.RateCount+1)
	t.RateCount++
	return nil
}

func (r *countingTrainerRepo) DeactivateByBranch(ctx context.Context, branchID string) (int64, error) {
	var n int64
	for _, t := range r.trainers {
		if t.BranchID == branchID && t.IsActive {
			t.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *countingTrainerRepo) DeleteByBranch(ctx context.Context, branchID string) error {
	for id, t := range r.trainers {
		if t.BranchID == branchID {
			delete(r.trainers, id)
		}
	}
	return nil
}

func (r *countingTrainerRepo) Delete(ctx context.Context, id string) error {
	delete(r.trainers, id)
	return nil
}

func setupCachedRepo(t *testing.T) (*CachedTrainerRepository, *countingTrainerRepo) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := newCountingTrainerRepo()
	return NewCachedTrainerRepository(inner, NewRedisCacheRepository(client)), inner
}

func TestCachedTrainerGetByIDReadThrough(t *testing.T) {
	repo, inner := setupCachedRepo(t)
	ctx := context.Background()

	trainer := &domain.Trainer{ID: "t1", UserName: "coach_omar", BranchID: "b1", IsActive: true}
	require.NoError(t, repo.Create(ctx, trainer))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "coach_omar", got.UserName)
	assert.Equal(t, 1, inner.getCalls)

	// Second read is served from Redis.
	got, err = repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "coach_omar", got.UserName)
	assert.Equal(t, 1, inner.getCalls)
}

func TestCachedTrainerUpdateInvalidates(t *testing.T) {
	repo, inner := setupCachedRepo(t)
	ctx := context.Background()

	trainer := &domain.Trainer{ID: "t1", UserName: "coach_omar", BranchID: "b1", IsActive: true}
	require.NoError(t, repo.Create(ctx, trainer))

	_, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)

	updated := *trainer
	updated.UserName = "coach_omar_v2"
	require.NoError(t, repo.Update(ctx, &updated))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "coach_omar_v2", got.UserName)
	assert.Equal(t, 2, inner.getCalls)
}

func TestCachedTrainerBranchListingInvalidatedByDeactivation(t *testing.T) {
	repo, inner := setupCachedRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Trainer{ID: "t1", UserName: "a", BranchID: "b1", IsActive: true}))
	require.NoError(t, repo.Create(ctx, &domain.Trainer{ID: "t2", UserName: "b", BranchID: "b1", IsActive: true}))

	listed, err := repo.ListActiveByBranch(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, 1, inner.branchCalls)

	listed, err = repo.ListActiveByBranch(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, 1, inner.branchCalls)

	n, err := repo.DeactivateByBranch(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	listed, err = repo.ListActiveByBranch(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.Equal(t, 2, inner.branchCalls)
}

func TestCachedTrainerRatingInvalidatesDetail(t *testing.T) {
	repo, _ := setupCachedRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Trainer{ID: "t1", UserName: "a", BranchID: "b1", IsActive: true}))

	_, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)

	require.NoError(t, repo.ApplyRating(ctx, "t1", 4))

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Rate)
	assert.Equal(t, int64(1), got.RateCount)
}
