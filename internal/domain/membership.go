package domain

import (
	"context"
	"time"
)

// Membership is a user's access contract with a branch for a fixed duration.
//
// Once IsActive is true the pricing fields (duration, price, dates) are
// immutable; deletion additionally requires IsPaid to be false. Both guards
// are enforced by conditional writes in the repository, not by read-then-write.
type Membership struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Duration  int       `bson:"duration" json:"duration"`
	Price     float64   `bson:"price" json:"price"`
	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`
	UserID    string    `bson:"user_id" json:"user_id"`
	BranchID  string    `bson:"branch_id" json:"branch_id"`
	IsActive  bool      `bson:"is_active" json:"is_active"`
	IsPaid    bool      `bson:"is_paid" json:"is_paid"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// MembershipPatch is the caller-facing merge-patch for membership updates.
type MembershipPatch struct {
	Duration  *int
	StartDate *time.Time
	IsActive  *bool
	IsPaid    *bool
}

// MembershipUpdate is the resolved field set written by a guarded update.
// Nil fields are left untouched.
type MembershipUpdate struct {
	Duration  *int
	Price     *float64
	StartDate *time.Time
	EndDate   *time.Time
	IsActive  *bool
	IsPaid    *bool
}

// MembershipRepository defines operations for managing memberships.
// Methods taking a userID scope the query to that owner; an empty userID
// means unscoped (admin access).
type MembershipRepository interface {
	Create(ctx context.Context, m *Membership) error
	GetByID(ctx context.Context, id, userID string) (*Membership, error)
	List(ctx context.Context, opts ListOptions) ([]*Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*Membership, error)
	ListByBranch(ctx context.Context, branchID string) ([]*Membership, error)

	// UpdateIfInactive applies upd only when the membership is currently
	// inactive, as one conditional write. It reports whether a document
	// matched; callers disambiguate a miss into not-found vs guard conflict.
	UpdateIfInactive(ctx context.Context, id, userID string, upd MembershipUpdate) (bool, error)

	// DeleteIfSettled deletes only when IsActive and IsPaid are both false.
	DeleteIfSettled(ctx context.Context, id, userID string) (bool, error)

	ExistsActivePaidByUser(ctx context.Context, userID string) (bool, error)
	CountByBranch(ctx context.Context, branchID string, activeOnly bool) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}
