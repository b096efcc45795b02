package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ashrafosamaa/gym-management-sys/internal/config"
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
)

// MembershipService handles gym membership contracts.
//
// Pricing is derived, never caller-supplied: price comes from the fixed
// duration table and the end date from the start date plus the duration in
// calendar months. Updates that touch duration or start date recompute both;
// flag-only updates leave them alone.
type MembershipService struct {
	memberships domain.MembershipRepository
	users       domain.UserRepository
	branches    domain.BranchRepository
	policy      config.PolicyConfig
}

func NewMembershipService(
	memberships domain.MembershipRepository,
	users domain.UserRepository,
	branches domain.BranchRepository,
	policy config.PolicyConfig,
) *MembershipService {
	return &MembershipService{
		memberships: memberships,
		users:       users,
		branches:    branches,
		policy:      policy,
	}
}

// Create opens a new membership for a user at a branch. The contract always
// starts inactive; activation is a separate admin action. Front-desk creates
// may record payment up front, self-service ones pass isPaid false.
func (s *MembershipService) Create(ctx context.Context, userID, branchID string, duration int, startDate time.Time, isPaid bool) (*domain.Membership, error) {
	price, err := domain.PriceForMembership(duration)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	branch, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !branch.IsActive {
		return nil, domain.ErrBranchNotFound
	}

	membership := &domain.Membership{
		Duration:  duration,
		Price:     price,
		StartDate: startDate,
		EndDate:   domain.ComputeEndDate(startDate, duration),
		UserID:    userID,
		BranchID:  branchID,
		IsActive:  false,
		IsPaid:    isPaid,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// Get fetches one membership. A non-empty userID restricts the lookup to
// that owner, so members cannot read each other's contracts.
func (s *MembershipService) Get(ctx context.Context, id, userID string) (*domain.Membership, error) {
	return s.memberships.GetByID(ctx, id, userID)
}

func (s *MembershipService) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Membership, error) {
	memberships, err := s.memberships.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return memberships, nil
}

func (s *MembershipService) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	memberships, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return memberships, nil
}

func (s *MembershipService) ListByBranch(ctx context.Context, branchID string) ([]*domain.Membership, error) {
	memberships, err := s.memberships.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return memberships, nil
}

// Update applies a merge-patch to an inactive membership. Active contracts
// are immutable; the guard rides on the storage write itself, and a miss is
// disambiguated into not-found vs locked after the fact.
func (s *MembershipService) Update(ctx context.Context, id, userID string, patch domain.MembershipPatch) (*domain.Membership, error) {
	upd, err := s.resolveUpdate(ctx, id, userID, patch)
	if err != nil {
		return nil, err
	}

	matched, err := s.memberships.UpdateIfInactive(ctx, id, userID, upd)
	if err != nil {
		return nil, err
	}
	if !matched {
		current, err := s.memberships.GetByID(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if current.IsActive {
			return nil, domain.ErrMembershipLocked
		}
		// Deleted between the write and the re-read.
		return nil, domain.ErrMembershipNotFound
	}

	return s.memberships.GetByID(ctx, id, userID)
}

func (s *MembershipService) resolveUpdate(ctx context.Context, id, userID string, patch domain.MembershipPatch) (domain.MembershipUpdate, error) {
	upd := domain.MembershipUpdate{
		IsActive: patch.IsActive,
		IsPaid:   patch.IsPaid,
	}
	if patch.Duration == nil && patch.StartDate == nil {
		return upd, nil
	}

	current, err := s.memberships.GetByID(ctx, id, userID)
	if err != nil {
		return upd, err
	}

	duration := current.Duration
	if patch.Duration != nil {
		duration = *patch.Duration
		price, err := domain.PriceForMembership(duration)
		if err != nil {
			return upd, err
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
	return upd, nil
}

// Delete removes a settled membership. Anything active or still paid up is
// kept for the books and answers with a conflict.
func (s *MembershipService) Delete(ctx context.Context, id, userID string) error {
	deleted, err := s.memberships.DeleteIfSettled(ctx, id, userID)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}

	current, err := s.memberships.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if current.IsActive || current.IsPaid {
		return fmt.Errorf("%w: is_active=%t is_paid=%t", domain.ErrMembershipUnsettled, current.IsActive, current.IsPaid)
	}
	return domain.ErrMembershipNotFound
}
