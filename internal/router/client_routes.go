package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/handler"
	"github.com/iliyamo/services-marketplace/internal/middleware"
	"github.com/iliyamo/services-marketplace/internal/model"
)

// RegisterClient registers favorites and review writes.  Both require the
// client role.
func RegisterClient(e *echo.Echo, fav *handler.FavoriteHandler, rev *handler.ReviewHandler, jwtSecret string) {
	guard := middleware.JWTAuth(jwtSecret)
	client := middleware.RequireRole(model.RoleClient)

	g := e.Group("/favorites", guard, client)
	g.GET("", fav.List)
	g.POST("", fav.Add)
	g.DELETE("/:serviceId", fav.Remove)

	e.POST("/services/:id/reviews", rev.Create, guard, client)
}
