package domain

import (
	"context"
	"time"
)

// Trainer specializations offered across branches.
var TrainerSpecializations = []string{
	"Personal", "Bodybuilding", "Functional", "Cardio",
	"Rehabilitation", "Physiotherapy", "Yoga", "Nutrition",
}

// Trainer represents a coach employed at a single branch.
//
// IsActive stays false while the trainer is in the first-time state: the
// account is created with a one-use password and only becomes visible to
// members after the trainer completes the first login. Branch deactivation
// also forces every trainer of that branch inactive.
type Trainer struct {
	ID             string       `bson:"_id,omitempty" json:"id"`
	UserName       string       `bson:"user_name" json:"user_name"`
	Description    string       `bson:"description" json:"description"`
	Experience     int          `bson:"experience" json:"experience"`
	BranchID       string       `bson:"branch_id" json:"branch_id"`
	PhoneNumber    string       `bson:"phone_number" json:"phone_number"`
	Gender         string       `bson:"gender" json:"gender"`
	Specialization string       `bson:"specialization" json:"specialization"`
	PricePerMonth  float64      `bson:"price_per_month" json:"price_per_month"`
	Rate           float64      `bson:"rate" json:"rate"`
	RateCount      int64        `bson:"rate_count" json:"rate_count"`
	IsActive       bool         `bson:"is_active" json:"is_active"`
	IsFirstTime    bool         `bson:"is_first_time" json:"is_first_time"`
	Password       string       `bson:"password,omitempty" json:"-"`
	PasswordOneUse string       `bson:"password_one_use,omitempty" json:"-"`
	ProfileImage   ProfileImage `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	CreatedAt      time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updated_at"`
}

// TrainerPatch is a merge-patch of optional trainer fields.
type TrainerPatch struct {
	UserName       *string
	Description    *string
	Experience     *int
	BranchID       *string
	PhoneNumber    *string
	Gender         *string
	Specialization *string
	PricePerMonth  *float64
	IsActive       *bool
}

// TrainerRepository defines operations for managing trainers.
type TrainerRepository interface {
	Create(ctx context.Context, trainer *Trainer) error
	GetByID(ctx context.Context, id string) (*Trainer, error)
	GetByUserName(ctx context.Context, userName string) (*Trainer, error)
	GetByPhone(ctx context.Context, phone string) (*Trainer, error)
	ListActive(ctx context.Context, opts ListOptions) ([]*Trainer, error)
	ListActiveByBranch(ctx context.Context, branchID string) ([]*Trainer, error)
	Search(ctx context.Context, f TrainerSearch) ([]*Trainer, error)
	Update(ctx context.Context, trainer *Trainer) error

	// ApplyRating folds one rating into the trainer's running average as a
	// single atomic storage-level update, so concurrent ratings on the same
	// trainer cannot overwrite each other.
	ApplyRating(ctx context.Context, id string, rate float64) error

	// DeactivateByBranch forces every trainer of the branch inactive and
	// returns the number of trainers changed.
	DeactivateByBranch(ctx context.Context, branchID string) (int64, error)

	DeleteByBranch(ctx context.Context, branchID string) error
	Delete(ctx context.Context, id string) error
}
