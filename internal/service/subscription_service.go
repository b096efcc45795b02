package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ashrafosamaa/gym-management-sys/internal/config"
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
)

// SubscriptionService handles personal-training contracts between members and
// trainers, including the one-shot trainer rating flow.
type SubscriptionService struct {
	subscriptions domain.SubscriptionRepository
	memberships   domain.MembershipRepository
	trainers      domain.TrainerRepository
	policy        config.PolicyConfig
}

func NewSubscriptionService(
	subscriptions domain.SubscriptionRepository,
	memberships domain.MembershipRepository,
	trainers domain.TrainerRepository,
	policy config.PolicyConfig,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		memberships:   memberships,
		trainers:      trainers,
		policy:        policy,
	}
}

// Create opens a personal-training contract. The member must hold an active
// paid membership, the trainer must be visible (active), and the price is the
// trainer's monthly rate times the duration. The branch is pinned from the
// trainer at creation time.
func (s *SubscriptionService) Create(ctx context.Context, userID, trainerID string, duration int, startDate time.Time) (*domain.Subscription, error) {
	if !domain.ValidDuration(duration) {
		return nil, domain.ErrInvalidDuration
	}

	hasMembership, err := s.memberships.ExistsActivePaidByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !hasMembership {
		return nil, domain.ErrNoActiveMembership
	}

	trainer, err := s.trainers.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if !trainer.IsActive {
		return nil, domain.ErrTrainerNotFound
	}

	price, err := domain.PriceForSubscription(trainer.PricePerMonth, duration)
	if err != nil {
		return nil, err
	}

	sub := &domain.Subscription{
		Duration:  duration,
		Price:     price,
		StartDate: startDate,
		EndDate:   domain.ComputeEndDate(startDate, duration),
		UserID:    userID,
		TrainerID: trainerID,
		BranchID:  trainer.BranchID,
		IsActive:  false,
		IsPaid:    false,
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) Get(ctx context.Context, id, userID string) (*domain.Subscription, error) {
	return s.subscriptions.GetByID(ctx, id, userID)
}

func (s *SubscriptionService) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Subscription, error) {
	subs, err := s.subscriptions.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return subs, nil
}

func (s *SubscriptionService) ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	subs, err := s.subscriptions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return subs, nil
}

func (s *SubscriptionService) ListByTrainer(ctx context.Context, trainerID string) ([]*domain.Subscription, error) {
	subs, err := s.subscriptions.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return subs, nil
}

func (s *SubscriptionService) ListByBranch(ctx context.Context, branchID string) ([]*domain.Subscription, error) {
	subs, err := s.subscriptions.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return subs, nil
}

// Update applies a merge-patch to an inactive subscription. A new duration
// reprices against the trainer's current monthly rate.
func (s *SubscriptionService) Update(ctx context.Context, id, userID string, patch domain.SubscriptionPatch) (*domain.Subscription, error) {
	upd := domain.MembershipUpdate{
		IsActive: patch.IsActive,
		IsPaid:   patch.IsPaid,
	}

	if patch.Duration != nil || patch.StartDate != nil {
		current, err := s.subscriptions.GetByID(ctx, id, userID)
		if err != nil {
			return nil, err
		}

		duration := current.Duration
		if patch.Duration != nil {
			duration = *patch.Duration
			trainer, err := s.trainers.GetByID(ctx, current.TrainerID)
			if err != nil {
				return nil, err
			}
			price, err := domain.PriceForSubscription(trainer.PricePerMonth, duration)
			if err != nil {
				return nil, err
			}
			upd.Duration = patch.Duration
			upd.Price = &price
		}

		startDate := current.StartDate
		if patch.StartDate != nil {
			startDate = *patch.StartDate
			upd.StartDate = patch.StartDate
		}

		endDate := domain.ComputeEndDate(startDate, duration)
		upd.EndDate = &endDate
	}

	matched, err := s.subscriptions.UpdateIfInactive(ctx, id, userID, upd)
	if err != nil {
		return nil, err
	}
	if !matched {
		current, err := s.subscriptions.GetByID(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if current.IsActive {
			return nil, domain.ErrSubscriptionLocked
		}
		return nil, domain.ErrSubscriptionNotFound
	}

	return s.subscriptions.GetByID(ctx, id, userID)
}

func (s *SubscriptionService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.subscriptions.DeleteIfSettled(ctx, id, userID)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}

	current, err := s.subscriptions.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if current.IsActive || current.IsPaid {
		return fmt.Errorf("%w: is_active=%t is_paid=%t", domain.ErrSubscriptionUnsettled, current.IsActive, current.IsPaid)
	}
	return domain.ErrSubscriptionNotFound
}

// Rate records the member's one-shot rating of their trainer. The comment is
// claimed first with a conditional write so a subscription can never feed two
// ratings into the average, then the rating folds into the trainer's running
// mean atomically on the trainer document.
func (s *SubscriptionService) Rate(ctx context.Context, id, userID string, rate float64, comment string) (*domain.Subscription, error) {
	if rate < 1 || rate > 5 {
		return nil, domain.ErrInvalidRate
	}
	// An empty comment would leave the claim slot re-claimable.
	if comment == "" {
		return nil, domain.ErrEmptyComment
	}

	claimed, err := s.subscriptions.ClaimComment(ctx, id, userID, comment)
	if err != nil {
		return nil, err
	}
	if claimed == nil {
		current, err := s.subscriptions.GetByID(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if current.Comment != "" {
			return nil, domain.ErrAlreadyRated
		}
		return nil, domain.ErrSubscriptionNotFound
	}

	if err := s.trainers.ApplyRating(ctx, claimed.TrainerID, rate); err != nil {
		return nil, err
	}
	return claimed, nil
}
