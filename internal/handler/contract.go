package handler // handler package contains contract handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/service"
)

// ContractHandler exposes the contract lifecycle.  All ownership and
// status rules live in service.ContractService.
type ContractHandler struct {
	Contracts *service.ContractService
}

func NewContractHandler(s *service.ContractService) *ContractHandler {
	return &ContractHandler{Contracts: s}
}

type offerReq struct {
	ServiceID uint64 `json:"id_service" validate:"required"`
	Hours     int    `json:"hours" validate:"gt=0,lte=1000"`
}

type respondReq struct {
	Action string `json:"action" validate:"required,oneof=accept deny"`
}

func (h *ContractHandler) Offer(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	var req offerReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	k, err := h.Contracts.Offer(ctx, uid, req.ServiceID, req.Hours)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, k)
}

func (h *ContractHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	asClient, asProvider, err := h.Contracts.List(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"as_client": asClient, "as_provider": asProvider})
}

func (h *ContractHandler) Get(c echo.Context) error {
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
	k, err := h.Contracts.Get(ctx, uid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, k)
}

// Respond accepts or denies a pending contract.  A second response gets
// 409 and leaves the first decision in place.
func (h *ContractHandler) Respond(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	var req respondReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	k, err := h.Contracts.Respond(ctx, uid, id, req.Action == "accept")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, k)
}

func (h *ContractHandler) Complete(c echo.Context) error {
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
	k, err := h.Contracts.Complete(ctx, uid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, k)
}
