package domain

import "github.com/golang-jwt/jwt/v5"

// AuthClaims is the JWT payload issued to admins, users and trainers.
type AuthClaims struct {
	AccountID string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}
