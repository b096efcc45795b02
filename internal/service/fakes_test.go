package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
)

// In-memory repositories backing the service tests. They mirror the
// conditional-write semantics of the Mongo implementations.

func nextID(seq *int) string {
	*seq++
	return fmt.Sprintf("%024d", *seq)
}

type fakeMembershipRepo struct {
	store map[string]*domain.Membership
	seq   int
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{store: map[string]*domain.Membership{}}
}

func (r *fakeMembershipRepo) Create(_ context.Context, m *domain.Membership) error {
	m.ID = nextID(&r.seq)
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	r.store[m.ID] = &cp
	return nil
}

func (r *fakeMembershipRepo) get(id, userID string) *domain.Membership {
	m, ok := r.store[id]
	if !ok {
		return nil
	}
	if userID != "" && m.UserID != userID {
		return nil
	}
	return m
}

func (r *fakeMembershipRepo) GetByID(_ context.Context, id, userID string) (*domain.Membership, error) {
	m := r.get(id, userID)
	if m == nil {
		return nil, domain.ErrMembershipNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMembershipRepo) List(_ context.Context, _ domain.ListOptions) ([]*domain.Membership, error) {
	out := []*domain.Membership{}
	for _, m := range r.store {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMembershipRepo) ListByUser(_ context.Context, userID string) ([]*domain.Membership, error) {
	out := []*domain.Membership{}
	for _, m := range r.store {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) ListByBranch(_ context.Context, branchID string) ([]*domain.Membership, error) {
	out := []*domain.Membership{}
	for _, m := range r.store {
		if m.BranchID == branchID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func applyUpdate(m *domain.Membership, upd domain.MembershipUpdate) {
	if upd.Duration != nil {
		m.Duration = *upd.Duration
	}
	if upd.Price != nil {
		m.Price = *upd.Price
	}
	if upd.StartDate != nil {
		m.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		m.EndDate = *upd.EndDate
	}
	if upd.IsActive != nil {
		m.IsActive = *upd.IsActive
	}
	if upd.IsPaid != nil {
		m.IsPaid = *upd.IsPaid
	}
	m.UpdatedAt = time.Now().UTC()
}

func (r *fakeMembershipRepo) UpdateIfInactive(_ context.Context, id, userID string, upd domain.MembershipUpdate) (bool, error) {
	m := r.get(id, userID)
	if m == nil || m.IsActive {
		return false, nil
	}
	applyUpdate(m, upd)
	return true, nil
}

func (r *fakeMembershipRepo) DeleteIfSettled(_ context.Context, id, userID string) (bool, error) {
	m := r.get(id, userID)
	if m == nil || m.IsActive || m.IsPaid {
		return false, nil
	}
	delete(r.store, id)
	return true, nil
}

func (r *fakeMembershipRepo) ExistsActivePaidByUser(_ context.Context, userID string) (bool, error) {
	for _, m := range r.store {
		if m.UserID == userID && m.IsActive && m.IsPaid {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMembershipRepo) CountByBranch(_ context.Context, branchID string, activeOnly bool) (int64, error) {
	var n int64
	for _, m := range r.store {
		if m.BranchID == branchID && (!activeOnly || m.IsActive) {
			n++
		}
	}
	return n, nil
}

func (r *fakeMembershipRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, m := range r.store {
		if m.UserID == userID {
			delete(r.store, id)
		}
	}
	return nil
}

type fakeSubscriptionRepo struct {
	store map[string]*domain.Subscription
	seq   int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{store: map[string]*domain.Subscription{}}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *domain.Subscription) error {
	sub.ID = nextID(&r.seq)
	sub.CreatedAt = time.Now().UTC()
	sub.UpdatedAt = sub.CreatedAt
	cp := *sub
	r.store[sub.ID] = &cp
	return nil
}

func (r *fakeSubscriptionRepo) get(id, userID string) *domain.Subscription {
	sub, ok := r.store[id]
	if !ok {
		return nil
	}
	if userID != "" && sub.UserID != userID {
		return nil
	}
	return sub
}

func (r *fakeSubscriptionRepo) GetByID(_ context.Context, id, userID string) (*domain.Subscription, error) {
	sub := r.get(id, userID)
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeSubscriptionRepo) List(_ context.Context, _ domain.ListOptions) ([]*domain.Subscription, error) {
	out := []*domain.Subscription{}
	for _, sub := range r.store {
		cp := *sub
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) ListByUser(_ context.Context, userID string) ([]*domain.Subscription, error) {
	out := []*domain.Subscription{}
	for _, sub := range r.store {
		if sub.UserID == userID {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) ListByTrainer(_ context.Context, trainerID string) ([]*domain.Subscription, error) {
	out := []*domain.Subscription{}
	for _, sub := range r.store {
		if sub.TrainerID == trainerID {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) ListByBranch(_ context.Context, branchID string) ([]*domain.Subscription, error) {
	out := []*domain.Subscription{}
	for _, sub := range r.store {
		if sub.BranchID == branchID {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) UpdateIfInactive(_ context.Context, id, userID string, upd domain.MembershipUpdate) (bool, error) {
	sub := r.get(id, userID)
	if sub == nil || sub.IsActive {
		return false, nil
	}
	if upd.Duration != nil {
		sub.Duration = *upd.Duration
	}
	if upd.Price != nil {
		sub.Price = *upd.Price
	}
	if upd.StartDate != nil {
		sub.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		sub.EndDate = *upd.EndDate
	}
	if upd.IsActive != nil {
		sub.IsActive = *upd.IsActive
	}
	if upd.IsPaid != nil {
		sub.IsPaid = *upd.IsPaid
	}
	sub.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *fakeSubscriptionRepo) DeleteIfSettled(_ context.Context, id, userID string) (bool, error) {
	sub := r.get(id, userID)
	if sub == nil || sub.IsActive || sub.IsPaid {
		return false, nil
	}
	delete(r.store, id)
	return true, nil
}

func (r *fakeSubscriptionRepo) ClaimComment(_ context.Context, id, userID, comment string) (*domain.Subscription, error) {
	sub := r.get(id, userID)
	if sub == nil || sub.Comment != "" {
		return nil, nil
	}
	sub.Comment = comment
	sub.UpdatedAt = time.Now().UTC()
	cp := *sub
	return &cp, nil
}

func (r *fakeSubscriptionRepo) CountByBranch(_ context.Context, branchID string, activeOnly bool) (int64, error) {
	var n int64
	for _, sub := range r.store {
		if sub.BranchID == branchID && (!activeOnly || sub.IsActive) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSubscriptionRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, sub := range r.store {
		if sub.UserID == userID {
			delete(r.store, id)
		}
	}
	return nil
}

type fakeTrainerRepo struct {
	store map[string]*domain.Trainer
	seq   int
}

func newFakeTrainerRepo() *fakeTrainerRepo {
	return &fakeTrainerRepo{store: map[string]*domain.Trainer{}}
}

func (r *fakeTrainerRepo) Create(_ context.Context, t *domain.Trainer) error {
	t.ID = nextID(&r.seq)
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.store[t.ID] = &cp
	return nil
}

func (r *fakeTrainerRepo) GetByID(_ context.Context, id string) (*domain.Trainer, error) {
	t, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTrainerNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTrainerRepo) GetByUserName(_ context.Context, userName string) (*domain.Trainer, error) {
	for _, t := range r.store {
		if t.UserName == userName {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTrainerNotFound
}

func (r *fakeTrainerRepo) GetByPhone(_ context.Context, phone string) (*domain.Trainer, error) {
	for _, t := range r.store {
		if t.PhoneNumber == phone {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTrainerNotFound
}

func (r *fakeTrainerRepo) ListActive(_ context.Context, _ domain.ListOptions) ([]*domain.Trainer, error) {
	out := []*domain.Trainer{}
	for _, t := range r.store {
		if t.IsActive {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTrainerRepo) ListActiveByBranch(_ context.Context, branchID string) ([]*domain.Trainer, error) {
	out := []*domain.Trainer{}
	for _, t := range r.store {
		if t.IsActive && t.BranchID == branchID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTrainerRepo) Search(ctx context.Context, _ domain.TrainerSearch) ([]*domain.Trainer, error) {
	return r.ListActive(ctx, domain.ListOptions{})
}

func (r *fakeTrainerRepo) Update(_ context.Context, t *domain.Trainer) error {
	if _, ok := r.store[t.ID]; !ok {
		return domain.ErrTrainerNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	r.store[t.ID] = &cp
	return nil
}

func (r *fakeTrainerRepo) ApplyRating(_ context.Context, id string, rate float64) error {
	t, ok := r.store[id]
	if !ok {
		return domain.ErrTrainerNotFound
	}
	t.Rate = (t.Rate*float64(t.RateCount) + rate) / float64(t.RateCount+1)
	t.RateCount++
	return nil
}

func (r *fakeTrainerRepo) DeactivateByBranch(_ context.Context, branchID string) (int64, error) {
	var n int64
	for _, t := range r.store {
		if t.BranchID == branchID && t.IsActive {
			t.IsActive = false
			n++
		}
	}
	return n, nil
}

func (r *fakeTrainerRepo) DeleteByBranch(_ context.Context, branchID string) error {
	for id, t := range r.store {
		if t.BranchID == branchID {
			delete(r.store, id)
		}
	}
	return nil
}

func (r *fakeTrainerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store[id]; !ok {
		return domain.ErrTrainerNotFound
	}
	delete(r.store, id)
	return nil
}

type fakeBranchRepo struct {
	store map[string]*domain.Branch
	seq   int
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{store: map[string]*domain.Branch{}}
}

func (r *fakeBranchRepo) Create(_ context.Context, b *domain.Branch) error {
	b.ID = nextID(&r.seq)
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.store[b.ID] = &cp
	return nil
}

func (r *fakeBranchRepo) GetByID(_ context.Context, id string) (*domain.Branch, error) {
	b, ok := r.store[id]
	if !ok {
		return nil, domain.ErrBranchNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBranchRepo) GetAll(_ context.Context) ([]*domain.Branch, error) {
	out := []*domain.Branch{}
	for _, b := range r.store {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBranchRepo) Update(_ context.Context, b *domain.Branch) error {
	if _, ok := r.store[b.ID]; !ok {
		return domain.ErrBranchNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	r.store[b.ID] = &cp
	return nil
}

func (r *fakeBranchRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store[id]; !ok {
		return domain.ErrBranchNotFound
	}
	delete(r.store, id)
	return nil
}

type fakeUserRepo struct {
	store map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{store: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	u.ID = nextID(&r.seq)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.store[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range r.store {
		if u.PhoneNumber == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context, _ domain.ListOptions) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.store {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Search(ctx context.Context, _ domain.UserSearch) ([]*domain.User, error) {
	return r.List(ctx, domain.ListOptions{})
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.store[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	r.store[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Activate(_ context.Context, email, code string) (bool, error) {
	for _, u := range r.store {
		if u.Email == email && u.ActivationCode == code && !u.Activated {
			u.Activated = true
			u.ActivationCode = ""
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.store, id)
	return nil
}

type fakeMediaStore struct {
	uploads map[string][]byte
	deleted []string
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{uploads: map[string][]byte{}}
}

func (m *fakeMediaStore) Upload(_ context.Context, data []byte, key, _ string) (string, error) {
	m.uploads[key] = data
	return "http://media.test/" + key, nil
}

func (m *fakeMediaStore) Delete(_ context.Context, key string) error {
	delete(m.uploads, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type fakeNotifier struct {
	activations   []string
	credentials   []string
	activationErr error
}

func (n *fakeNotifier) SendActivationCode(_ context.Context, email, _, _ string) error {
	if n.activationErr != nil {
		return n.activationErr
	}
	n.activations = append(n.activations, email)
	return nil
}

func (n *fakeNotifier) SendTrainerCredentials(_ context.Context, phone, _, _ string) error {
	n.credentials = append(n.credentials, phone)
	return nil
}
