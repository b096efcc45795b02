package domain

import (
	"context"
	"time"
)

// MemberStatus values
const (
	MemberStatusBronze = "bronze"
	MemberStatusSilver = "silver"
	MemberStatusGold   = "gold"
)

// ProfileImage is a stored media object reference.
type ProfileImage struct {
	URL string `bson:"url,omitempty" json:"url,omitempty"`
	Key string `bson:"key,omitempty" json:"-"`
}

// User represents a gym member account.
type User struct {
	ID             string       `bson:"_id,omitempty" json:"id"`
	FirstName      string       `bson:"first_name" json:"first_name"`
	LastName       string       `bson:"last_name" json:"last_name"`
	Email          string       `bson:"email" json:"email"`
	PhoneNumber    string       `bson:"phone_number" json:"phone_number"`
	Password       string       `bson:"password" json:"-"`
	Gender         string       `bson:"gender" json:"gender"`
	MemberStatus   string       `bson:"member_status" json:"member_status"`
	Weight         float64      `bson:"weight,omitempty" json:"weight,omitempty"`
	Height         float64      `bson:"height,omitempty" json:"height,omitempty"`
	Activated      bool         `bson:"is_account_activated" json:"is_account_activated"`
	ActivationCode string       `bson:"activation_code,omitempty" json:"-"`
	ProfileImage   ProfileImage `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	CreatedAt      time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updated_at"`
}

// UserPatch carries a merge-patch of optional profile fields: only non-nil
// fields are applied, absent fields stay untouched.
type UserPatch struct {
	FirstName    *string
	LastName     *string
	PhoneNumber  *string
	Gender       *string
	MemberStatus *string
	Weight       *float64
	Height       *float64
}

// UserRepository defines operations for managing user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	List(ctx context.Context, opts ListOptions) ([]*User, error)
	Search(ctx context.Context, f UserSearch) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Activate(ctx context.Context, email, code string) (bool, error)
	Delete(ctx context.Context, id string) error
}
