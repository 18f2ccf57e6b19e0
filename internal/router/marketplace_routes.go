package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/handler"
	"github.com/iliyamo/services-marketplace/internal/middleware"
	"github.com/iliyamo/services-marketplace/internal/model"
)

// RegisterContracts registers the contract lifecycle.  Reads are open to
// either role; each transition is gated by the role that may perform it.
func RegisterContracts(e *echo.Echo, h *handler.ContractHandler, jwtSecret string) {
	g := e.Group("/contracts", middleware.JWTAuth(jwtSecret))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Offer, middleware.RequireRole(model.RoleClient))
	g.POST("/:id/respond", h.Respond, middleware.RequireRole(model.RoleProvider))
	g.POST("/:id/complete", h.Complete, middleware.RequireRole(model.RoleClient))
}

// RegisterConversations registers the polling chat.  Only clients open
// conversations; both sides read and send.
func RegisterConversations(e *echo.Echo, h *handler.ConversationHandler, jwtSecret string) {
	g := e.Group("/conversations", middleware.JWTAuth(jwtSecret))
	g.GET("", h.List)
	g.POST("", h.Open, middleware.RequireRole(model.RoleClient))
	g.GET("/:id/messages", h.Messages)
	g.POST("/:id/messages", h.Send)
}
