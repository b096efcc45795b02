package service

import (
	"context"
	"testing"
	"time"

	"github.com/ashrafosamaa/gym-management-sys/internal/config"
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subscriptionFixture struct {
	svc         *SubscriptionService
	trainers    *fakeTrainerRepo
	memberships *fakeMembershipRepo
	userID      string
	trainerID   string
}

func newSubscriptionFixture(t *testing.T, withMembership bool) *subscriptionFixture {
	t.Helper()
	ctx := context.Background()

	subscriptions := newFakeSubscriptionRepo()
	memberships := newFakeMembershipRepo()
	trainers := newFakeTrainerRepo()

	trainer := &domain.Trainer{
		UserName:      "coach_adam",
		BranchID:      "000000000000000000000010",
		PricePerMonth: 250,
		IsActive:      true,
	}
	require.NoError(t, trainers.Create(ctx, trainer))

	userID := "000000000000000000000001"
	if withMembership {
		require.NoError(t, memberships.Create(ctx, &domain.Membership{
			UserID:   userID,
			BranchID: trainer.BranchID,
			IsActive: true,
			IsPaid:   true,
		}))
	}

	return &subscriptionFixture{
		svc:         NewSubscriptionService(subscriptions, memberships, trainers, config.PolicyConfig{}),
		trainers:    trainers,
		memberships: memberships,
		userID:      userID,
		trainerID:   trainer.ID,
	}
}

func TestSubscriptionCreate(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture(t, true)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sub, err := f.svc.Create(ctx, f.userID, f.trainerID, 3, start)
	require.NoError(t, err)

	assert.Equal(t, 750.0, sub.Price) // 250 * 3
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), sub.EndDate)
	assert.Equal(t, "000000000000000000000010", sub.BranchID)
	assert.False(t, sub.IsActive)
}

func TestSubscriptionCreateRequiresMembership(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture(t, false)

	_, err := f.svc.Create(ctx, f.userID, f.trainerID, 3, time.Now())
	assert.ErrorIs(t, err, domain.ErrNoActiveMembership)
}

func TestSubscriptionCreateInactiveTrainer(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture(t, true)

	trainer, err := f.trainers.GetByID(ctx, f.trainerID)
	require.NoError(t, err)
	trainer.IsActive = false
	require.NoError(t, f.trainers.Update(ctx, trainer))

	_, err = f.svc.Create(ctx, f.userID, f.trainerID, 3, time.Now())
	assert.ErrorIs(t, err, domain.ErrTrainerNotFound)
}

func TestSubscriptionUpdateReprices(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture(t, true)

	sub, err := f.svc.Create(ctx, f.userID, f.trainerID, 1, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 250.0, sub.Price)

	dur := 6
	updated, err := f.svc.Update(ctx, sub.ID, f.userID, domain.SubscriptionPatch{Duration: &dur})
	require.NoError(t, err)

	assert.Equal(t, 1500.0, updated.Price)
	assert.Equal(t, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), updated.EndDate)
}

func TestSubscriptionUpdateLockedWhenActive(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture(t, true)

	sub, err := f.svc.Create(ctx, f.userID, f.trainerID, 1, time.Now())
	require.NoError(t, err)

	active := true
	_, err = f.svc.Update(ctx, sub.ID, f.userID, domain.SubscriptionPatch{IsActive: &active})
	require.NoError(t, err)

	dur := 3
	_, err = f.svc.Update(ctx, sub.ID, f.userID, domain.SubscriptionPatch{Duration: &dur})
	assert.ErrorIs(t, err, domain.ErrSubscriptionLocked)
}

func TestSubscriptionRate(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture(t, true)

	sub, err := f.svc.Create(ctx, f.userID, f.trainerID, 1, time.Now())
	require.NoError(t, err)

	_, err = f.svc.Rate(ctx, sub.ID, f.userID, 4, "great coach")
	require.NoError(t, err)

	trainer, err := f.trainers.GetByID(ctx, f.trainerID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, trainer.Rate)
	assert.Equal(t, int64(1), trainer.RateCount)

	// A second member's rating averages in.
	otherUser := "000000000000000000000002"
	require.NoError(t, f.memberships.Create(ctx, &domain.Membership{
		UserID: otherUser, BranchID: trainer.BranchID, IsActive: true, IsPaid: true,
	}))
	sub2, err := f.svc.Create(ctx, otherUser, f.trainerID, 1, time.Now())
	require.NoError(t, err)

	_, err = f.svc.Rate(ctx, sub2.ID, otherUser, 2, "too strict")
	require.NoError(t, err)

	trainer, err = f.trainers.GetByID(ctx, f.trainerID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, trainer.Rate)
	assert.Equal(t, int64(2), trainer.RateCount)
}

func TestSubscriptionRateOnce(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture(t, true)

	sub, err := f.svc.Create(ctx, f.userID, f.trainerID, 1, time.Now())
	require.NoError(t, err)

	_, err = f.svc.Rate(ctx, sub.ID, f.userID, 5, "first")
	require.NoError(t, err)

	_, err = f.svc.Rate(ctx, sub.ID, f.userID, 1, "second")
	assert.ErrorIs(t, err, domain.ErrAlreadyRated)

	trainer, err := f.trainers.GetByID(ctx, f.trainerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), trainer.RateCount)
}

func TestSubscriptionRateValidation(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture(t, true)

	sub, err := f.svc.Create(ctx, f.userID, f.trainerID, 1, time.Now())
	require.NoError(t, err)

	_, err = f.svc.Rate(ctx, sub.ID, f.userID, 0, "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
	_, err = f.svc.Rate(ctx, sub.ID, f.userID, 6, "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	// An empty comment must not claim the one-shot slot.
	_, err = f.svc.Rate(ctx, sub.ID, f.userID, 3, "")
	assert.ErrorIs(t, err, domain.ErrEmptyComment)

	trainer, err := f.trainers.GetByID(ctx, f.trainerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), trainer.RateCount)

	// The slot is still open for a proper rating afterwards.
	_, err = f.svc.Rate(ctx, sub.ID, f.userID, 3, "solid")
	require.NoError(t, err)
}

func TestSubscriptionListByBranch(t *testing.T) {
	ctx := context.Background()
	f := newSubscriptionFixture(t, true)

	sub, err := f.svc.Create(ctx, f.userID, f.trainerID, 1, time.Now())
	require.NoError(t, err)

	subs, err := f.svc.ListByBranch(ctx, sub.BranchID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, sub.ID, subs[0].ID)

	subs, err = f.svc.ListByBranch(ctx, "000000000000000000000099")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubscriptionListByBranchEmptyPolicy(t *testing.T) {
	ctx := context.Background()

	svc := NewSubscriptionService(
		newFakeSubscriptionRepo(), newFakeMembershipRepo(), newFakeTrainerRepo(),
		config.PolicyConfig{ListEmptyAsNotFound: true},
	)
	_, err := svc.ListByBranch(ctx, "000000000000000000000010")
	assert.ErrorIs(t, err, domain.ErrNoResults)
}
