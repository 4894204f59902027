package middleware

import (
	"github.com/gofiber/fiber/v2"

	"docflow/internal/auth"
	"docflow/internal/model"
)

// PrincipalLocalKey is the key the authenticated *model.User is stored under in Fiber's context locals.
const PrincipalLocalKey = "principal"

// Authenticate resolves the Authorization header to a local user, or fails the request
// with the authenticator's error. The user is also attached to the request's user context.
func Authenticate(a *auth.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := a.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Locals(PrincipalLocalKey, user)
		c.SetUserContext(auth.WithPrincipal(c.UserContext(), user))
		return c.Next()
	}
}

// RequireAdmin lets only admins through. It must run after Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.Authorize(Principal(c), true); err != nil {
			return err
		}
		return c.Next()
	}
}

// Principal returns the user stored by Authenticate, or nil.
func Principal(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(PrincipalLocalKey).(*model.User)
	return u
}
