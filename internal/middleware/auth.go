// Package middleware provides the request guards used by the HTTP layer.
package middleware

import (
	"strings"

	"github.com/skippergoroye/Accman-Server/internal/models"
	"github.com/skippergoroye/Accman-Server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is where RequireAuth stores the parsed token claims.
const ClaimsKey = "claims"

// RequireAuth validates the bearer token and adds its claims to the
// request context.
func RequireAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "Missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "Invalid authorization format")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return utils.Unauthorized(c, "Invalid token")
	}

	c.Locals(ClaimsKey, claims)
	return c.Next()
}

// RequireAdmin verifies that the request carries admin claims. It must
// run after RequireAuth.
func RequireAdmin(c *fiber.Ctx) error {
	claims, ok := c.Locals(ClaimsKey).(*models.AuthClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}
	if !claims.IsAdmin() {
		return utils.Forbidden(c, "Admin privileges required")
	}
	return c.Next()
}

// Claims returns the authenticated principal for the request, or nil.
func Claims(c *fiber.Ctx) *models.AuthClaims {
	claims, _ := c.Locals(ClaimsKey).(*models.AuthClaims)
	return claims
}
