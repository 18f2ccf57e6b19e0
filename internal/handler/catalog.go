package handler // handler package contains category and service listing handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/model"
	"github.com/iliyamo/services-marketplace/internal/repository"
	"github.com/iliyamo/services-marketplace/internal/service"
)

// CatalogHandler serves categories and services.  Reads are public;
// writes need a provider token and ownership of the service.
type CatalogHandler struct {
	Catalog *service.CatalogService
}

func NewCatalogHandler(s *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: s}
}

type serviceReq struct {
	CategoryID      uint64  `json:"id_category" validate:"required"`
	Name            string  `json:"name" validate:"required,max=160"`
	Description     string  `json:"description" validate:"max=4000"`
	HourlyPrice     float64 `json:"hourly_price" validate:"gt=0,lte=100000"`
	ExperienceYears int     `json:"experience_years" validate:"gte=0,lte=80"`
}

func (r serviceReq) input() repository.ServiceInput {
	return repository.ServiceInput{
		CategoryID:      r.CategoryID,
		Name:            strings.TrimSpace(r.Name),
		Description:     strings.TrimSpace(r.Description),
		HourlyPrice:     r.HourlyPrice,
		ExperienceYears: r.ExperienceYears,
	}
}

func (h *CatalogHandler) Categories(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": list})
}

// Services lists visible services.  Query: category, q, limit, offset.
func (h *CatalogHandler) Services(c echo.Context) error {
	var f model.ServiceFilter
	err := echo.QueryParamsBinder(c).
		Uint64("category", &f.CategoryID).
		String("q", &f.Query).
		Int("limit", &f.Limit).
		Int("offset", &f.Offset).
		BindError()
	if err != nil || f.Limit < 0 || f.Offset < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid query"})
	}
	f.Query = strings.TrimSpace(f.Query)

	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Catalog.ListServices(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"services": list})
}

func (h *CatalogHandler) Service(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	svc, err := h.Catalog.GetService(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, svc)
}

// ProviderServices lists the caller's services, hidden ones included.
func (h *CatalogHandler) ProviderServices(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Catalog.ProviderServices(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"services": list})
}

func (h *CatalogHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	var req serviceReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	svc, err := h.Catalog.CreateService(ctx, uid, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	var req serviceReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	svc, err := h.Catalog.UpdateService(ctx, uid, id, req.input())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, svc)
}

// Delete hides the service; it stays referenced by contracts.
func (h *CatalogHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Catalog.DeleteService(ctx, uid, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
