package handler // handler package contains client favorites handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/service"
)

type FavoriteHandler struct {
	Favorites *service.FavoriteService
}

func NewFavoriteHandler(s *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{Favorites: s}
}

type favoriteReq struct {
	ServiceID uint64 `json:"id_service" validate:"required"`
}

func (h *FavoriteHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Favorites.List(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"services": list})
}

func (h *FavoriteHandler) Add(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	var req favoriteReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Favorites.Add(ctx, uid, req.ServiceID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id_service": req.ServiceID})
}

func (h *FavoriteHandler) Remove(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := pathID(c, "serviceId")
	if !ok {
		return badID(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Favorites.Remove(ctx, uid, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
