package service

import (
	"fmt"
	"time"

	"github.com/ashrafosamaa/gym-management-sys/internal/config"
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService handles JWT access token generation and validation
type TokenService struct {
	jwtConfig config.JWTConfig
}

// NewTokenService creates a new token service
func NewTokenService(jwtConfig config.JWTConfig) *TokenService {
	return &TokenService{jwtConfig: jwtConfig}
}

// AuthToken is the issued credential pair returned to sign-in callers.
type AuthToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Seconds until access token expires
}

// Issue creates a signed access/refresh token pair for the given account.
// The refresh token is signed with a separate secret so a leaked access key
// cannot mint new sessions.
func (s *TokenService) Issue(accountID, name, role string) (*AuthToken, error) {
	expiry := time.Duration(s.jwtConfig.ExpiryHours) * time.Hour
	access, err := s.sign(accountID, name, role, expiry, s.jwtConfig.Secret)
	if err != nil {
		return nil, err
	}

	refreshExpiry := time.Duration(s.jwtConfig.RefreshExpDays) * 24 * time.Hour
	refresh, err := s.sign(accountID, name, role, refreshExpiry, s.jwtConfig.RefreshSecret)
	if err != nil {
		return nil, err
	}

	return &AuthToken{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(expiry.Seconds()),
	}, nil
}

func (s *TokenService) sign(accountID, name, role string, expiry time.Duration, secret string) (string, error) {
	claims := domain.AuthClaims{
		AccountID: accountID,
		Name:      name,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Refresh validates a refresh token and issues a fresh pair for the same
// account.
func (s *TokenService) Refresh(refreshToken string) (*AuthToken, error) {
	claims, err := s.parseWithSecret(refreshToken, s.jwtConfig.RefreshSecret)
	if err != nil {
		return nil, err
	}
	return s.Issue(claims.AccountID, claims.Name, claims.Role)
}

// Parse validates a signed access token and returns its claims.
func (s *TokenService) Parse(tokenString string) (*domain.AuthClaims, error) {
	return s.parseWithSecret(tokenString, s.jwtConfig.Secret)
}

func (s *TokenService) parseWithSecret(tokenString, secret string) (*domain.AuthClaims, error) {
	claims := &domain.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
