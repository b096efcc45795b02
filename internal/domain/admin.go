package domain

import (
	"context"
	"time"
)

// Admin roles. The king admin is the single root account that manages other admins.
const (
	RoleKing    = "king"
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RoleTrainer = "trainer"
)

// Admin represents a back-office account.
type Admin struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Password  string    `bson:"password" json:"-"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AdminRepository defines operations for managing admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	GetByID(ctx context.Context, id string) (*Admin, error)
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	GetAll(ctx context.Context) ([]*Admin, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	Delete(ctx context.Context, id string) error
}
