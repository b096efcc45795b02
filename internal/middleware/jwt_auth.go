package middleware

import (
	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys for storing auth info
const (
	AccountIDKey = "accountID"
	NameKey      = "accountName"
	RoleKey      = "role"
)

// VerifyToken validates the JWT and stores its claims in the request context.
func VerifyToken(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		// Extract token (format: "Bearer <token>")
		tokenString := authHeader
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenString = authHeader[7:]
		}

		token, err := jwt.ParseWithClaims(tokenString, &domain.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*domain.AuthClaims)
		if !ok || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		c.Locals(AccountIDKey, claims.AccountID)
		c.Locals(NameKey, claims.Name)
		c.Locals(RoleKey, claims.Role)

		return c.Next()
	}
}

// AuthorizeRole checks that the caller holds one of the required roles.
// The king role passes every admin check.
func AuthorizeRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleInterface := c.Locals(RoleKey)
		if roleInterface == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No role found in token",
			})
		}

		role, ok := roleInterface.(string)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Invalid role format",
			})
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
			if allowed == domain.RoleAdmin && role == domain.RoleKing {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":          "Insufficient permissions",
			"required_roles": allowedRoles,
		})
	}
}

// AccountID returns the authenticated account id from the request context.
func AccountID(c *fiber.Ctx) string {
	id, _ := c.Locals(AccountIDKey).(string)
	return id
}

// Role returns the authenticated role from the request context.
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(RoleKey).(string)
	return role
}
