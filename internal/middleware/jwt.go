package middleware // reusable HTTP middleware for the echo router

import (
	"net/http" // status codes for guard failures
	"strings"  // Bearer prefix handling

	"github.com/labstack/echo/v4" // middleware signature and context storage

	"github.com/iliyamo/services-marketplace/internal/utils" // token verification
)

// Context keys set by JWTAuth.
const (
	ctxToken  = "token"
	ctxUserID = "user_id"
	ctxRoles  = "roles"
)

// Guard failure messages.  The two cases are kept apart so clients can tell
// a missing header from a bad token.
const (
	MsgNoToken     = "no token present"
	MsgTokenFailed = "token verification failed"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the caller's user id (uint64) and role snapshot
// (model.RoleSet) on the context.  The roles are whatever the token was
// issued with; they are not refreshed here.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Only a "Bearer "-prefixed header yields a token; anything
			// else counts as no token at all.
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if raw, ok := strings.CutPrefix(auth, "Bearer "); ok {
				if raw = strings.TrimSpace(raw); raw != "" {
					c.Set(ctxToken, raw)
				}
			}

			// No token variable means case (a): nothing to verify.
			raw, _ := c.Get(ctxToken).(string)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": MsgNoToken})
			}

			// Case (b): signature, algorithm and expiry are all checked
			// here and reported with one message.
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				logFor(c).Debug("access token rejected")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": MsgTokenFailed})
			}

			// Store the identity for handlers; CurrentIdentity reads it back.
			id, roles := claims.Identity()
			c.Set(ctxUserID, id)
			c.Set(ctxRoles, roles)
			return next(c)
		}
	}
}
