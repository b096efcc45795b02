package domain

import (
	"context"
	"time"
)

// Branch represents a physical gym location.
type Branch struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Address     string    `bson:"address" json:"address"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// BranchPatch is a merge-patch of optional branch fields.
type BranchPatch struct {
	Name        *string
	Description *string
	Address     *string
	IsActive    *bool
}

// BranchRepository defines operations for managing branches.
type BranchRepository interface {
	Create(ctx context.Context, branch *Branch) error
	GetByID(ctx context.Context, id string) (*Branch, error)
	GetAll(ctx context.Context) ([]*Branch, error)
	Update(ctx context.Context, branch *Branch) error
	Delete(ctx context.Context, id string) error
}
