package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashrafosamaa/gym-management-sys/internal/config"
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AdminService handles back-office accounts. The single king account manages
// the regular admins; role enforcement happens in the middleware layer.
type AdminService struct {
	admins domain.AdminRepository
	tokens *TokenService
	policy config.PolicyConfig
}

func NewAdminService(admins domain.AdminRepository, tokens *TokenService, policy config.PolicyConfig) *AdminService {
	return &AdminService{
		admins: admins,
		tokens: tokens,
		policy: policy,
	}
}

func (s *AdminService) Create(ctx context.Context, username, password string) (*domain.Admin, error) {
	_, err := s.admins.GetByUsername(ctx, username)
	if err == nil {
		return nil, domain.ErrDuplicateAdminName
	}
	if !errors.Is(err, domain.ErrAdminNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.Admin{
		Username: username,
		Password: string(hashed),
		Role:     domain.RoleAdmin,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) SignIn(ctx context.Context, username, password string) (*AuthToken, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(admin.ID, admin.Username, admin.Role)
}

func (s *AdminService) Get(ctx context.Context, id string) (*domain.Admin, error) {
	return s.admins.GetByID(ctx, id)
}

func (s *AdminService) GetAll(ctx context.Context) ([]*domain.Admin, error) {
	admins, err := s.admins.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 && s.policy.ListEmptyAsNotFound {
		return nil, domain.ErrNoResults
	}
	return admins, nil
}

// ChangePassword verifies the current password before storing the new one.
func (s *AdminService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.admins.UpdatePassword(ctx, id, string(hashed))
}

// Delete removes an admin account. The king account cannot be deleted.
func (s *AdminService) Delete(ctx context.Context, id string) error {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if admin.Role == domain.RoleKing {
		return domain.ErrAdminNotFound
	}
	return s.admins.Delete(ctx, id)
}
