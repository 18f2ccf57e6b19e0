// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/services-marketplace/internal/handler"
	"github.com/iliyamo/services-marketplace/internal/middleware"
)

// New returns an echo instance with the middleware every route shares:
// panic recovery, request ids, request logging and body validation.
func New(log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = middleware.NewValidator()
	e.Use(
		echomw.Recover(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		echomw.BodyLimit("6M"),
	)
	return e
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, db *sqlx.DB) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth registers the credential endpoints.  limit throttles every
// one of them since they are the brute-force surface.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	e.POST("/login", a.Login, limit)
	e.POST("/login/google", a.LoginGoogle, limit)
	e.POST("/register/client", a.RegisterClient, limit)
	e.POST("/register/provider", a.RegisterProvider, limit)

	pw := e.Group("/password", limit)
	pw.POST("/forgot", a.ForgotPassword)
	pw.POST("/reset", a.ResetPassword)
}

// RegisterPublic registers the catalog reads guests may use.  cache sits
// in front of each of them.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, rev *handler.ReviewHandler, cache echo.MiddlewareFunc) {
	e.GET("/categories", cat.Categories, cache)
	e.GET("/services", cat.Services, cache)
	e.GET("/services/:id", cat.Service, cache)
	e.GET("/services/:id/reviews", rev.List, cache)
}

// RegisterProfile registers the caller's own account endpoints.  Any
// authenticated user may use them, whatever roles the token carries.
func RegisterProfile(e *echo.Echo, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group("/profile", middleware.JWTAuth(jwtSecret))
	g.GET("", p.Get)
	g.PUT("", p.Update)
	g.PUT("/picture", p.UploadPicture)
}
