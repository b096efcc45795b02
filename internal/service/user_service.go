package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"

	"github.com/ashrafosamaa/gym-management-sys/internal/config"
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles member accounts: signup with email activation,
// sign-in, profile management and account removal with full cleanup.
type UserService struct {
	users         domain.UserRepository
	memberships   domain.MembershipRepository
	subscriptions domain.SubscriptionRepository
	tokens        *TokenService
	media         domain.MediaStore
	notifier      domain.Notifier
	policy        config.PolicyConfig
}

func NewUserService(
	users domain.UserRepository,
	memberships domain.MembershipRepository,
	subscriptions domain.SubscriptionRepository,
	tokens *TokenService,
	media domain.MediaStore,
	notifier domain.Notifier,
	policy config.PolicyConfig,
) *UserService {
	return &UserService{
		users:         users,
		memberships:   memberships,
		subscriptions: subscriptions,
		tokens:        tokens,
		media:         media,
		notifier:      notifier,
		policy:        policy,
	}
}

// SignUpInput carries the self-service registration payload.
type SignUpInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
	Gender      string
	Weight      float64
	Height      float64
}

// SignUp registers a member account in the unactivated state and emails the
// activation code. The account cannot sign in until confirmed; if the email
// fails the whole signup fails and can be retried.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}
	if err := s.ensurePhoneFree(ctx, in.PhoneNumber); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := activationCode()
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		Password:       string(hashed),
		Gender:         in.Gender,
		MemberStatus:   domain.MemberStatusBronze,
		Weight:         in.Weight,
		Height:         in.Height,
		Activated:      false,
		ActivationCode: code,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.notifier.SendActivationCode(ctx, user.Email, user.FirstName, code); err != nil {
		// The account cannot be confirmed without the code, so the signup is
		// undone to keep the email free for a retry.
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			log.Printf("failed to remove user %s after email failure: %v", user.ID, delErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrEmailNotSent, err)
	}
	return user, nil
}

// Confirm activates an account with the emailed code.
func (s *UserService) Confirm(ctx context.Context, email, code string) error {
	activated, err := s.users.Activate(ctx, email, code)
	if err != nil {
		return err
	}
	if !activated {
		return domain.ErrUserNotFound
	}
	return nil
}

// SignIn authenticates an activated member by email and password.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*AuthToken, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Activated {
		return nil, domain.ErrNotActivated
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID, user.FirstName+" "+user.LastName, domain.RoleUser)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, opts domain.ListOptions) ([]*domain.User, error) {
	users, err := s.users.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return users, nil
}

func (s *UserService) Search(ctx context.Context, f domain.UserSearch) ([]*domain.User, error) {
	users, err := s.users.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return users, nil
}

// Update applies a merge-patch to the member profile.
func (s *UserService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.PhoneNumber != nil && *patch.PhoneNumber != user.PhoneNumber {
		if err := s.ensurePhoneFree(ctx, *patch.PhoneNumber); err != nil {
			return nil, err
		}
		user.PhoneNumber = *patch.PhoneNumber
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Gender != nil {
		user.Gender = *patch.Gender
	}
	if patch.MemberStatus != nil {
		user.MemberStatus = *patch.MemberStatus
	}
	if patch.Weight != nil {
		user.Weight = *patch.Weight
	}
	if patch.Height != nil {
		user.Height = *patch.Height
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new one.
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	return s.users.Update(ctx, user)
}

// UploadImage stores a new profile image and swaps the reference, removing
// the previous object afterwards.
func (s *UserService) UploadImage(ctx context.Context, id string, data []byte, contentType string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := "users/" + ulid.Make().String()
	url, err := s.media.Upload(ctx, data, key, contentType)
	if err != nil {
		return nil, err
	}

	oldKey := user.ProfileImage.Key
	user.ProfileImage = domain.ProfileImage{URL: url, Key: key}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if oldKey != "" {
		if err := s.media.Delete(ctx, oldKey); err != nil {
			log.Printf("failed to delete old user image %s: %v", oldKey, err)
		}
	}
	return user, nil
}

// Delete removes the account together with its contracts and stored image.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.memberships.DeleteByUser(ctx, id); err != nil {
		return err
	}
	if err := s.subscriptions.DeleteByUser(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if user.ProfileImage.Key != "" {
		if err := s.media.Delete(ctx, user.ProfileImage.Key); err != nil {
			log.Printf("failed to delete user image %s: %v", user.ProfileImage.Key, err)
		}
	}
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return domain.ErrDuplicateEmail
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	return err
}

func (s *UserService) ensurePhoneFree(ctx context.Context, phone string) error {
	_, err := s.users.GetByPhone(ctx, phone)
	if err == nil {
		return domain.ErrDuplicatePhone
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	return err
}

// activationCode returns a 6-digit numeric code.
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate activation code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
