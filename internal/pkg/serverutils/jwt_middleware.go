package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTMiddleware authenticates requests and stores the tenant id in locals.
// Landlord-scoped routes additionally require the "landlord" role claim.
func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Missing authorization header", nil)
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid authorization header format", nil)
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token", nil)
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token claims", nil)
		}

		tenantIdStr, _ := claims["tenant_id"].(string)
		tenantId, err := uuid.Parse(tenantIdStr)
		if err != nil {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid tenant claim", nil)
		}

		role, _ := claims["role"].(string)

		c.Locals("tenant_id", tenantId)
		c.Locals("role", role)

		return c.Next()
	}
}

// RequireLandlord guards landlord-only routes. It must run after JWTMiddleware.
func RequireLandlord() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != "landlord" {
			return ErrorResponse(c, fiber.StatusForbidden, "Landlord access required", nil)
		}
		return c.Next()
	}
}

// TenantIdFromContext extracts the authenticated tenant id set by JWTMiddleware.
func TenantIdFromContext(c *fiber.Ctx) (uuid.UUID, error) {
	tenantId, ok := c.Locals("tenant_id").(uuid.UUID)
	if !ok {
		return uuid.Nil, NewApiError(fiber.StatusUnauthorized, "Missing tenant context")
	}
	return tenantId, nil
}
