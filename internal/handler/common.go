package handler // shared helpers: binding, error mapping, path ids

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/services-marketplace/internal/middleware"
	"github.com/iliyamo/services-marketplace/internal/service"
	"github.com/iliyamo/services-marketplace/internal/storage"
)

// requestTimeout bounds the database work of a single request.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// bind decodes the body into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errBadBody
	}
	return c.Validate(req)
}

var errBadBody = errors.New("invalid body")

// getUserID returns the authenticated caller.  Routes using it sit behind
// JWTAuth, so a missing identity is a wiring bug.
func getUserID(c echo.Context) (uint64, error) {
	id, _, ok := middleware.CurrentIdentity(c)
	if !ok {
		return 0, errors.New("no identity in context")
	}
	return id, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}

type statusMsg struct {
	status int
	msg    string
}

// errorStatus maps service errors to a status.  Unlisted errors are 500.
var errorStatus = map[error]statusMsg{
	errBadBody:                    {http.StatusBadRequest, "invalid body"},
	service.ErrInvalidCredentials: {http.StatusUnauthorized, "invalid credentials"},
	service.ErrNoRole:             {http.StatusForbidden, "no role assigned"},
	service.ErrRoleRequired:       {http.StatusForbidden, "not authorized for this role"},
	service.ErrNotPermitted:       {http.StatusForbidden, "not permitted on this resource"},
	service.ErrRoleExists:         {http.StatusConflict, "role already registered"},
	service.ErrAlreadyFavorite:    {http.StatusConflict, "already in favorites"},
	service.ErrAlreadyResponded:   {http.StatusConflict, "already responded"},
	service.ErrContractNotActive:  {http.StatusConflict, "contract is not accepted"},
	service.ErrTokenMissing:       {http.StatusBadRequest, "token missing"},
	service.ErrUnknownCategory:    {http.StatusBadRequest, "unknown category"},
	service.ErrInvalidResetToken:  {http.StatusBadRequest, "invalid or expired reset token"},
	service.ErrNotFound:           {http.StatusNotFound, "not found"},
	service.ErrExternalIdentity:   {http.StatusInternalServerError, "external identity verification failed"},
	service.ErrStorageDisabled:    {http.StatusServiceUnavailable, "picture storage is not configured"},
	storage.ErrImageTooLarge:      {http.StatusRequestEntityTooLarge, storage.ErrImageTooLarge.Error()},
	storage.ErrImageType:          {http.StatusUnsupportedMediaType, storage.ErrImageType.Error()},
}

// fail writes the JSON error response for err.  Infrastructure errors are
// logged and hidden behind a generic message.
func fail(c echo.Context, err error) error {
	var ve *middleware.ValidationError
	if errors.As(err, &ve) {
		status, body := ve.Response()
		return c.JSON(status, body)
	}
	for target, sm := range errorStatus {
		if errors.Is(err, target) {
			if sm.status >= http.StatusInternalServerError {
				middleware.Logger(c).Error("request failed", zap.Error(err))
			}
			return c.JSON(sm.status, echo.Map{"error": sm.msg})
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		middleware.Logger(c).Error("request timed out", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "request timed out"})
	}
	middleware.Logger(c).Error("request failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
