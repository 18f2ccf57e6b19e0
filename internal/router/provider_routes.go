package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/handler"
	"github.com/iliyamo/services-marketplace/internal/middleware"
	"github.com/iliyamo/services-marketplace/internal/model"
)

// RegisterProvider registers service management.  The role gate only checks
// the token; ownership of each service is decided in the service layer.
func RegisterProvider(e *echo.Echo, cat *handler.CatalogHandler, jwtSecret string) {
	mw := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleProvider),
	}
	e.GET("/provider/services", cat.ProviderServices, mw...)
	e.POST("/services", cat.Create, mw...)
	e.PUT("/services/:id", cat.Update, mw...)
	e.DELETE("/services/:id", cat.Delete, mw...)
}
