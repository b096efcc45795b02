package service

import (
	"context"

	"github.com/ashrafosamaa/gym-management-sys/internal/config"
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"golang.org/x/sync/errgroup"
)

// BranchService coordinates the branch lifecycle with its dependents.
//
// Deactivation is blocked while the branch carries active memberships or
// subscriptions, and when it goes through every trainer of the branch is
// forced inactive. Deletion is blocked while any contract still references
// the branch at all.
type BranchService struct {
	branches      domain.BranchRepository
	trainers      domain.TrainerRepository
	memberships   domain.MembershipRepository
	subscriptions domain.SubscriptionRepository
	policy        config.PolicyConfig
}

func NewBranchService(
	branches domain.BranchRepository,
	trainers domain.TrainerRepository,
	memberships domain.MembershipRepository,
	subscriptions domain.SubscriptionRepository,
	policy config.PolicyConfig,
) *BranchService {
	return &BranchService{
		branches:      branches,
		trainers:      trainers,
		memberships:   memberships,
		subscriptions: subscriptions,
		policy:        policy,
	}
}

func (s *BranchService) Create(ctx context.Context, name, description, address string) (*domain.Branch, error) {
	branch := &domain.Branch{
		Name:        name,
		Description: description,
		Address:     address,
		IsActive:    true,
	}
	if err := s.branches.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// BranchDetails is a branch together with its visible trainers.
type BranchDetails struct {
	Branch   *domain.Branch    `json:"branch"`
	Trainers []*domain.Trainer `json:"trainers"`
}

func (s *BranchService) Get(ctx context.Context, id string) (*BranchDetails, error) {
	branch, err := s.branches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	trainers, err := s.trainers.ListActiveByBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BranchDetails{Branch: branch, Trainers: trainers}, nil
}

func (s *BranchService) GetAll(ctx context.Context) ([]*domain.Branch, error) {
	branches, err := s.branches.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(branches) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return branches, nil
}

// Update applies a merge-patch to a branch. Setting IsActive to false runs
// the deactivation flow; setting it back to true only flips the branch, it
// does not resurrect trainers that were cascaded inactive.
func (s *BranchService) Update(ctx context.Context, id string, patch domain.BranchPatch) (*domain.Branch, error) {
	branch, err := s.branches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deactivating := patch.IsActive != nil && !*patch.IsActive && branch.IsActive
	if deactivating {
		if err := s.ensureNoActiveContracts(ctx, id); err != nil {
			return nil, err
		}
	}

	if patch.Name != nil {
		branch.Name = *patch.Name
	}
	if patch.Description != nil {
		branch.Description = *patch.Description
	}
	if patch.Address != nil {
		branch.Address = *patch.Address
	}
	if patch.IsActive != nil {
		branch.IsActive = *patch.IsActive
	}

	if err := s.branches.Update(ctx, branch); err != nil {
		return nil, err
	}

	if deactivating {
		if _, err := s.trainers.DeactivateByBranch(ctx, id); err != nil {
			return nil, err
		}
	}
	return branch, nil
}

// Delete removes a branch that no contract references anymore. Trainers are
// deleted along with it only when the cascade policy is on; otherwise they
// stay behind, deactivated.
func (s *BranchService) Delete(ctx context.Context, id string) error {
	if _, err := s.branches.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.ensureUnreferenced(ctx, id); err != nil {
		return err
	}

	if err := s.branches.Delete(ctx, id); err != nil {
		return err
	}

	if s.policy.BranchDeleteCascadeTrainers {
		return s.trainers.DeleteByBranch(ctx, id)
	}
	_, err := s.trainers.DeactivateByBranch(ctx, id)
	return err
}

// ensureNoActiveContracts counts active memberships and subscriptions for the
// branch concurrently and fails when either is non-zero.
func (s *BranchService) ensureNoActiveContracts(ctx context.Context, branchID string) error {
	var membershipCount, subscriptionCount int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		membershipCount, err = s.memberships.CountByBranch(gctx, branchID, true)
		return err
	})
	g.Go(func() error {
		var err error
		subscriptionCount, err = s.subscriptions.CountByBranch(gctx, branchID, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if membershipCount > 0 || subscriptionCount > 0 {
		return domain.ErrBranchHasActiveContracts
	}
	return nil
}

func (s *BranchService) ensureUnreferenced(ctx context.Context, branchID string) error {
	var membershipCount, subscriptionCount int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		membershipCount, err = s.memberships.CountByBranch(gctx, branchID, false)
		return err
	})
	g.Go(func() error {
		var err error
		subscriptionCount, err = s.subscriptions.CountByBranch(gctx, branchID, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if membershipCount > 0 || subscriptionCount > 0 {
		return domain.ErrBranchReferenced
	}
	return nil
}
