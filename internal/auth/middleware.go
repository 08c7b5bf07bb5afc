package auth

import (
	"strings"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
)

const claimsLocal = "claims"

// JWTMiddleware validates bearer access tokens and stores the claims in
// locals. Refresh tokens are rejected.
func JWTMiddleware(issuer *Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ParseBearer(c.Get(constants.JWTHeader))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := issuer.VerifyAs(token, TokenAccess)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		c.Locals(claimsLocal, claims)
		return c.Next()
	}
}

// RequirePermission rejects callers whose role lacks perm. It must run after JWTMiddleware.
func RequirePermission(perm constants.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "missing claims")
		}
		if !Can(claims.UserType, perm) {
			return fiber.NewError(fiber.StatusForbidden, string(perm)+" required")
		}
		return c.Next()
	}
}

func ClaimsFrom(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(claimsLocal).(*Claims)
	return claims
}

// UserTypeFrom returns the caller's role, or REGULAR when unauthenticated.
func UserTypeFrom(c *fiber.Ctx) contract.UserType {
	if claims := ClaimsFrom(c); claims != nil {
		return claims.UserType
	}
	return contract.UserTypeRegular
}

func ParseBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
