package router

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/handler"
	"github.com/iliyamo/services-marketplace/internal/service"
)

// Options carry the cross-cutting pieces of the route table.  A nil
// RateLimit or Cache disables that middleware.
type Options struct {
	JWTSecret string
	DB        *sqlx.DB
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// Mount builds every handler and registers the full route table.
func Mount(e *echo.Echo, s service.Set, o Options) {
	limit, cache := o.RateLimit, o.Cache
	if limit == nil {
		limit = noop
	}
	if cache == nil {
		cache = noop
	}

	catalog := handler.NewCatalogHandler(s.Catalog)
	reviews := handler.NewReviewHandler(s.Reviews)

	RegisterRoutes(e, o.DB)
	RegisterAuth(e, handler.NewAuthHandler(s.Auth), limit)
	RegisterPublic(e, catalog, reviews, cache)
	RegisterProfile(e, handler.NewProfileHandler(s.Auth), o.JWTSecret)
	RegisterProvider(e, catalog, o.JWTSecret)
	RegisterClient(e, handler.NewFavoriteHandler(s.Favorites), reviews, o.JWTSecret)
	RegisterContracts(e, handler.NewContractHandler(s.Contracts), o.JWTSecret)
	RegisterConversations(e, handler.NewConversationHandler(s.Chat), o.JWTSecret)
}

func noop(next echo.HandlerFunc) echo.HandlerFunc { return next }
