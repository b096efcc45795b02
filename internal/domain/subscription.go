package domain

import (
	"context"
	"time"
)

// Subscription is a user's personal-training contract with a trainer.
// BranchID is denormalized from the trainer at creation time.
//
// Comment is write-once: it is set together with the user's rating of the
// trainer and blocks any second rating through the same subscription.
type Subscription struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Duration  int       `bson:"duration" json:"duration"`
	Price     float64   `bson:"price" json:"price"`
	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`
	UserID    string    `bson:"user_id" json:"user_id"`
	TrainerID string    `bson:"trainer_id" json:"trainer_id"`
	BranchID  string    `bson:"branch_id" json:"branch_id"`
	IsActive  bool      `bson:"is_active" json:"is_active"`
	IsPaid    bool      `bson:"is_paid" json:"is_paid"`
	Comment   string    `bson:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SubscriptionPatch is the caller-facing merge-patch for subscription updates.
type SubscriptionPatch struct {
	Duration  *int
	StartDate *time.Time
	IsActive  *bool
	IsPaid    *bool
}

// SubscriptionRepository defines operations for managing subscriptions.
// An empty userID means unscoped (admin access).
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id, userID string) (*Subscription, error)
	List(ctx context.Context, opts ListOptions) ([]*Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]*Subscription, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]*Subscription, error)
	ListByBranch(ctx context.Context, branchID string) ([]*Subscription, error)

	UpdateIfInactive(ctx context.Context, id, userID string, upd MembershipUpdate) (bool, error)
	DeleteIfSettled(ctx context.Context, id, userID string) (bool, error)

	// ClaimComment stores the comment only if the subscription belongs to the
	// user and has no comment yet, returning the claimed subscription. A nil
	// result with nil error means nothing matched; two concurrent raters
	// serialize on this conditional write.
	ClaimComment(ctx context.Context, id, userID, comment string) (*Subscription, error)

	CountByBranch(ctx context.Context, branchID string, activeOnly bool) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}
