package handler // handler package contains conversation and message handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/service"
)

// ConversationHandler is the polling chat API.  Clients fetch new messages
// with GET .../messages?after=<last seen id> on a fixed interval.
type ConversationHandler struct {
	Chat *service.ChatService
}

func NewConversationHandler(s *service.ChatService) *ConversationHandler {
	return &ConversationHandler{Chat: s}
}

type openReq struct {
	ServiceID uint64 `json:"id_service" validate:"required"`
}

type messageReq struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// Open answers 201 when the conversation is new and 200 with the same
// id_conversation on every later call.
func (h *ConversationHandler) Open(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	var req openReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	conv, created, err := h.Chat.Open(ctx, uid, req.ServiceID)
	if err != nil {
		return fail(c, err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, conv)
}

func (h *ConversationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Chat.List(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"conversations": list})
}

func (h *ConversationHandler) Messages(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	var after uint64
	var limit int
	if err := echo.QueryParamsBinder(c).Uint64("after", &after).Int("limit", &limit).BindError(); err != nil || limit < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid query"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	msgs, err := h.Chat.History(ctx, uid, id, after, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

func (h *ConversationHandler) Send(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return badID(c)
	}
	var req messageReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": echo.Map{"content": "is required"}})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	m, err := h.Chat.Send(ctx, uid, id, content)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}
