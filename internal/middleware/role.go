package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/model"
)

// MsgRoleRequired is returned when the token carries none of the roles a
// route accepts.
const MsgRoleRequired = "not authorized for this role"

// RequireRole enforces that the token's role snapshot holds at least one of
// roles.  It must run after JWTAuth.  This is a coarse gate only; the
// service layer still resolves the caller's profile for every resource.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, have, ok := CurrentIdentity(c)
			if ok {
				for _, r := range roles {
					if have.Has(r) {
						return next(c)
					}
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": MsgRoleRequired})
		}
	}
}
