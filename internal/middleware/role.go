package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/utils"
)

// RequireRole returns a middleware that enforces that the authenticated
// caller has one of the specified roles. The roles correspond to the
// values stored in the JWT's "role" claim, which a previous JWTAuth
// middleware placed in the context under "role". Requests with a missing
// or disallowed role are rejected with 403 Forbidden.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireAdmin is shorthand for RequireRole(utils.RoleAdmin); every
// /api/admin route sits behind it.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(utils.RoleAdmin)
}
