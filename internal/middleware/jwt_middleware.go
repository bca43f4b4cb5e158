package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"freeskill/internal/apperror"
	"freeskill/internal/models"
)

// AccessTokenCookie is the cookie carrying the access token.
const AccessTokenCookie = "accessToken"

type currentUserKey struct{}

// AccessVerifier resolves an access token to the user it was issued to.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, token string) (*models.User, error)
}

// AuthRequired is a Fiber middleware that admits requests carrying a valid access
// token, read from the accessToken cookie or an "Authorization: Bearer" header.
// The resolved user is available to later handlers through CurrentUser.
func AuthRequired(verifier AccessVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := accessToken(c)
		if token == "" {
			return apperror.Unauthorized("Unauthorized request.")
		}

		user, err := verifier.VerifyAccess(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(currentUserKey{}, user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey{}).(*models.User)
	return user
}

func accessToken(c *fiber.Ctx) string {
	if token := c.Cookies(AccessTokenCookie); token != "" {
		return token
	}
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
