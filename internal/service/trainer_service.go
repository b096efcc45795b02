package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

// TrainerService handles trainer accounts and their first-login flow.
//
// A freshly registered trainer holds only a one-use password (derived from
// the phone number the admin registered) and stays invisible to members
// until the first login replaces it with a real one.
type TrainerService struct {
	trainers domain.TrainerRepository
	branches domain.BranchRepository
	tokens   *TokenService
	media    domain.MediaStore
	notifier domain.Notifier
}

func NewTrainerService(
	trainers domain.TrainerRepository,
	branches domain.BranchRepository,
	tokens *TokenService,
	media domain.MediaStore,
	notifier domain.Notifier,
) *TrainerService {
	return &TrainerService{
		trainers: trainers,
		branches: branches,
		tokens:   tokens,
		media:    media,
		notifier: notifier,
	}
}

// RegisterInput carries the admin-supplied trainer profile.
type RegisterInput struct {
	UserName       string
	Description    string
	Experience     int
	BranchID       string
	PhoneNumber    string
	Gender         string
	Specialization string
	PricePerMonth  float64
}

// Register creates a trainer account with a one-use password and sends the
// credentials out. Delivery is best-effort; registration does not roll back
// on a notification failure.
func (s *TrainerService) Register(ctx context.Context, in RegisterInput) (*domain.Trainer, error) {
	if err := s.ensureUserNameFree(ctx, in.UserName); err != nil {
		return nil, err
	}
	if err := s.ensurePhoneFree(ctx, in.PhoneNumber); err != nil {
		return nil, err
	}

	branch, err := s.branches.GetByID(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive {
		return nil, domain.ErrBranchNotFound
	}

	oneUse, err := bcrypt.GenerateFromPassword([]byte(in.PhoneNumber), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash one-use password: %w", err)
	}

	trainer := &domain.Trainer{
		UserName:       in.UserName,
		Description:    in.Description,
		Experience:     in.Experience,
		BranchID:       in.BranchID,
		PhoneNumber:    in.PhoneNumber,
		Gender:         in.Gender,
		Specialization: in.Specialization,
		PricePerMonth:  in.PricePerMonth,
		IsActive:       false,
		IsFirstTime:    true,
		PasswordOneUse: string(oneUse),
	}
	if err := s.trainers.Create(ctx, trainer); err != nil {
		return nil, err
	}

	if err := s.notifier.SendTrainerCredentials(ctx, in.PhoneNumber, in.UserName, in.PhoneNumber); err != nil {
		log.Printf("failed to send trainer credentials to %s: %v", in.UserName, err)
	}
	return trainer, nil
}

// FirstLogin exchanges the one-use password for a real one and makes the
// trainer visible to members.
func (s *TrainerService) FirstLogin(ctx context.Context, userName, oneUsePassword, newPassword string) (*AuthToken, error) {
	trainer, err := s.trainers.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, domain.ErrTrainerNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !trainer.IsFirstTime {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(trainer.PasswordOneUse), []byte(oneUsePassword)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	trainer.Password = string(hashed)
	trainer.PasswordOneUse = ""
	trainer.IsFirstTime = false
	trainer.IsActive = true
	if err := s.trainers.Update(ctx, trainer); err != nil {
		return nil, err
	}

	return s.tokens.Issue(trainer.ID, trainer.UserName, domain.RoleTrainer)
}

// SignIn authenticates a trainer who has completed the first login.
func (s *TrainerService) SignIn(ctx context.Context, userName, password string) (*AuthToken, error) {
	trainer, err := s.trainers.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, domain.ErrTrainerNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if trainer.IsFirstTime {
		return nil, domain.ErrTrainerFirstTime
	}
	if bcrypt.CompareHashAndPassword([]byte(trainer.Password), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(trainer.ID, trainer.UserName, domain.RoleTrainer)
}

func (s *TrainerService) Get(ctx context.Context, id string) (*domain.Trainer, error) {
	return s.trainers.GetByID(ctx, id)
}

func (s *TrainerService) ListActive(ctx context.Context, opts domain.ListOptions, emptyAsNotFound bool) ([]*domain.Trainer, error) {
	trainers, err := s.trainers.ListActive(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(trainers) == 0 && emptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return trainers, nil
}

func (s *TrainerService) Search(ctx context.Context, f domain.TrainerSearch, emptyAsNotFound bool) ([]*domain.Trainer, error) {
	trainers, err := s.trainers.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(trainers) == 0 && emptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return trainers, nil
}

// Update applies an admin merge-patch. Flipping IsActive on is rejected while
// the trainer has not completed the first login.
func (s *TrainerService) Update(ctx context.Context, id string, patch domain.TrainerPatch) (*domain.Trainer, error) {
	trainer, err := s.trainers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.IsActive != nil && *patch.IsActive && trainer.IsFirstTime {
		return nil, domain.ErrTrainerFirstTime
	}
	if patch.UserName != nil && *patch.UserName != trainer.UserName {
		if err := s.ensureUserNameFree(ctx, *patch.UserName); err != nil {
			return nil, err
		}
		trainer.UserName = *patch.UserName
	}
	if patch.PhoneNumber != nil && *patch.PhoneNumber != trainer.PhoneNumber {
		if err := s.ensurePhoneFree(ctx, *patch.PhoneNumber); err != nil {
			return nil, err
		}
		trainer.PhoneNumber = *patch.PhoneNumber
	}
	if patch.BranchID != nil && *patch.BranchID != trainer.BranchID {
		branch, err := s.branches.GetByID(ctx, *patch.BranchID)
		if err != nil {
			return nil, err
		}
		if !branch.IsActive {
			return nil, domain.ErrBranchNotFound
		}
		trainer.BranchID = *patch.BranchID
	}
	if patch.Description != nil {
		trainer.Description = *patch.Description
	}
	if patch.Experience != nil {
		trainer.Experience = *patch.Experience
	}
	if patch.Gender != nil {
		trainer.Gender = *patch.Gender
	}
	if patch.Specialization != nil {
		trainer.Specialization = *patch.Specialization
	}
	if patch.PricePerMonth != nil {
		trainer.PricePerMonth = *patch.PricePerMonth
	}
	if patch.IsActive != nil {
		trainer.IsActive = *patch.IsActive
	}

	if err := s.trainers.Update(ctx, trainer); err != nil {
		return nil, err
	}
	return trainer, nil
}

// UploadImage stores a new profile image and swaps the reference, removing
// the previous object afterwards.
func (s *TrainerService) UploadImage(ctx context.Context, id string, data []byte, contentType string) (*domain.Trainer, error) {
	trainer, err := s.trainers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := "trainers/" + ulid.Make().String()
	url, err := s.media.Upload(ctx, data, key, contentType)
	if err != nil {
		return nil, err
	}

	oldKey := trainer.ProfileImage.Key
	trainer.ProfileImage = domain.ProfileImage{URL: url, Key: key}
	if err := s.trainers.Update(ctx, trainer); err != nil {
		return nil, err
	}

	if oldKey != "" {
		if err := s.media.Delete(ctx, oldKey); err != nil {
			log.Printf("failed to delete old trainer image %s: %v", oldKey, err)
		}
	}
	return trainer, nil
}

func (s *TrainerService) Delete(ctx context.Context, id string) error {
	trainer, err := s.trainers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.trainers.Delete(ctx, id); err != nil {
		return err
	}
	if trainer.ProfileImage.Key != "" {
		if err := s.media.Delete(ctx, trainer.ProfileImage.Key); err != nil {
			log.Printf("failed to delete trainer image %s: %v", trainer.ProfileImage.Key, err)
		}
	}
	return nil
}

func (s *TrainerService) ensureUserNameFree(ctx context.Context, userName string) error {
	_, err := s.trainers.GetByUserName(ctx, userName)
	if err == nil {
		return domain.ErrDuplicateUserName
	}
	if errors.Is(err, domain.ErrTrainerNotFound) {
		return nil
	}
	return err
}

func (s *TrainerService) ensurePhoneFree(ctx context.Context, phone string) error {
	_, err := s.trainers.GetByPhone(ctx, phone)
	if err == nil {
		return domain.ErrDuplicatePhone
	}
	if errors.Is(err, domain.ErrTrainerNotFound) {
		return nil
	}
	return err
}
