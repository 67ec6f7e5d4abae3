package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "auth.claims"

// anonymousAdmin is attached to every request when auth is disabled.
var anonymousAdmin = &Claims{Subject: "anonymous", Role: RoleAdmin}

// Middleware validates the bearer token and stores the claims on the request.
// A nil service disables authentication.
func Middleware(jwtService *JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if jwtService == nil {
			c.Locals(claimsKey, anonymousAdmin)
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by Middleware.
func ClaimsFrom(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(claimsKey).(*Claims)
	return claims
}

// TenantScope returns the tenant an operator is restricted to, or "" for admins.
func TenantScope(c *fiber.Ctx) string {
	claims := ClaimsFrom(c)
	if claims == nil || claims.Role == RoleAdmin {
		return ""
	}
	return claims.TenantID
}

// RequireRole rejects requests whose role is not listed.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}

// RequireTenantParam lets admins through and operators only for their own
// tenant, read from the named route parameter.
func RequireTenantParam(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		if claims.Role == RoleAdmin || claims.TenantID == c.Params(param) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied for this tenant"})
	}
}
