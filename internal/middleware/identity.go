package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/model"
)

// CurrentIdentity returns the user id and role snapshot stored by JWTAuth.
// ok is false on routes that are not behind the guard.
func CurrentIdentity(c echo.Context) (uint64, model.RoleSet, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	if !ok || id == 0 {
		return 0, nil, false
	}
	roles, _ := c.Get(ctxRoles).(model.RoleSet)
	return id, roles, true
}
