package service

import (
	"context"
	"testing"

	"github.com/ashrafosamaa/gym-management-sys/internal/config"
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trainerFixture struct {
	svc      *TrainerService
	trainers *fakeTrainerRepo
	branches *fakeBranchRepo
	notifier *fakeNotifier
	media    *fakeMediaStore
	branchID string
}

func newTrainerFixture(t *testing.T) *trainerFixture {
	t.Helper()
	ctx := context.Background()

	trainers := newFakeTrainerRepo()
	branches := newFakeBranchRepo()
	notifier := &fakeNotifier{}
	media := newFakeMediaStore()

	branch := &domain.Branch{Name: "East", IsActive: true}
	require.NoError(t, branches.Create(ctx, branch))

	tokens := NewTokenService(config.JWTConfig{Secret: "test-secret", RefreshSecret: "test-refresh-secret", ExpiryHours: 1, RefreshExpDays: 7})
	return &trainerFixture{
		svc:      NewTrainerService(trainers, branches, tokens, media, notifier),
		trainers: trainers,
		branches: branches,
		notifier: notifier,
		media:    media,
		branchID: branch.ID,
	}
}

func registerInput(branchID string) RegisterInput {
	return RegisterInput{
		UserName:       "coach_lina",
		BranchID:       branchID,
		PhoneNumber:    "01001234567",
		Gender:         "female",
		Specialization: "Yoga",
		PricePerMonth:  300,
	}
}

func TestTrainerRegister(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t)

	trainer, err := f.svc.Register(ctx, registerInput(f.branchID))
	require.NoError(t, err)

	assert.True(t, trainer.IsFirstTime)
	assert.False(t, trainer.IsActive)
	assert.NotEmpty(t, trainer.PasswordOneUse)
	assert.Empty(t, trainer.Password)
	assert.Equal(t, []string{"01001234567"}, f.notifier.credentials)
}

func TestTrainerRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t)

	_, err := f.svc.Register(ctx, registerInput(f.branchID))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registerInput(f.branchID))
	assert.ErrorIs(t, err, domain.ErrDuplicateUserName)

	in := registerInput(f.branchID)
	in.UserName = "coach_other"
	_, err = f.svc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicatePhone)
}

func TestTrainerFirstLogin(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t)

	trainer, err := f.svc.Register(ctx, registerInput(f.branchID))
	require.NoError(t, err)

	// The one-use password is the registered phone number.
	token, err := f.svc.FirstLogin(ctx, trainer.UserName, "01001234567", "new-secret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)

	stored, err := f.trainers.GetByID(ctx, trainer.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsFirstTime)
	assert.True(t, stored.IsActive)
	assert.Empty(t, stored.PasswordOneUse)

	// The one-use password is spent.
	_, err = f.svc.FirstLogin(ctx, trainer.UserName, "01001234567", "another")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// The new password signs in.
	_, err = f.svc.SignIn(ctx, trainer.UserName, "new-secret-pass")
	require.NoError(t, err)
}

func TestTrainerSignInBeforeFirstLogin(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t)

	trainer, err := f.svc.Register(ctx, registerInput(f.branchID))
	require.NoError(t, err)

	_, err = f.svc.SignIn(ctx, trainer.UserName, "01001234567")
	assert.ErrorIs(t, err, domain.ErrTrainerFirstTime)
}

func TestTrainerActivateBlockedBeforeFirstLogin(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t)

	trainer, err := f.svc.Register(ctx, registerInput(f.branchID))
	require.NoError(t, err)

	active := true
	_, err = f.svc.Update(ctx, trainer.ID, domain.TrainerPatch{IsActive: &active})
	assert.ErrorIs(t, err, domain.ErrTrainerFirstTime)
}

func TestTrainerUploadImageReplacesOld(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t)

	trainer, err := f.svc.Register(ctx, registerInput(f.branchID))
	require.NoError(t, err)

	first, err := f.svc.UploadImage(ctx, trainer.ID, []byte("img1"), "image/png")
	require.NoError(t, err)
	require.NotEmpty(t, first.ProfileImage.Key)

	second, err := f.svc.UploadImage(ctx, trainer.ID, []byte("img2"), "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, first.ProfileImage.Key, second.ProfileImage.Key)
	assert.Contains(t, f.media.deleted, first.ProfileImage.Key)
}

func TestTrainerDeleteRemovesImage(t *testing.T) {
	ctx := context.Background()
	f := newTrainerFixture(t)

	trainer, err := f.svc.Register(ctx, registerInput(f.branchID))
	require.NoError(t, err)
	updated, err := f.svc.UploadImage(ctx, trainer.ID, []byte("img"), "image/png")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, trainer.ID))
	assert.Contains(t, f.media.deleted, updated.ProfileImage.Key)
}
