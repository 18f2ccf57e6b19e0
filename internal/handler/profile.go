package handler // handler package contains profile and picture handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/services-marketplace/internal/middleware"
	"github.com/iliyamo/services-marketplace/internal/model"
	"github.com/iliyamo/services-marketplace/internal/repository"
	"github.com/iliyamo/services-marketplace/internal/service"
	"github.com/iliyamo/services-marketplace/internal/storage"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	Auth *service.AuthService
}

func NewProfileHandler(a *service.AuthService) *ProfileHandler {
	return &ProfileHandler{Auth: a}
}

type profileResp struct {
	ID           uint64        `json:"id"`
	ClientID     *uint64       `json:"id_client"`
	ProviderID   *uint64       `json:"id_provider"`
	Email        string        `json:"email"`
	FullName     string        `json:"full_name"`
	Phone        string        `json:"phone"`
	Bio          string        `json:"bio"`
	City         string        `json:"city"`
	AuthProvider string        `json:"auth_provider"`
	PictureURL   string        `json:"picture_url,omitempty"`
	Roles        model.RoleSet `json:"roles"`
	TokenRoles   model.RoleSet `json:"token_roles"`
	CreatedAt    time.Time     `json:"created_at"`
}

type profileUpdateReq struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
	City     *string `json:"city" validate:"omitempty,max=120"`
}

// Get returns the profile with roles resolved now next to the roles the
// token was issued with; the two differ after a role is added until the
// next login.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, tokenRoles, _ := middleware.CurrentIdentity(c)
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.Auth.Profile(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	if tokenRoles == nil {
		tokenRoles = model.RoleSet{}
	}
	return c.JSON(http.StatusOK, profileResp{
		ID:           v.User.ID,
		ClientID:     v.Profiles.ClientID,
		ProviderID:   v.Profiles.ProviderID,
		Email:        v.User.Email,
		FullName:     v.User.FullName,
		Phone:        v.User.Phone.String,
		Bio:          v.User.Bio.String,
		City:         v.User.City.String,
		AuthProvider: v.User.AuthProvider,
		PictureURL:   v.PictureURL,
		Roles:        v.Roles,
		TokenRoles:   tokenRoles,
		CreatedAt:    v.User.CreatedAt,
	})
}

func (h *ProfileHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	var req profileUpdateReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	err = h.Auth.UpdateProfile(ctx, uid, repository.ProfileUpdate{
		FullName: req.FullName, Phone: req.Phone, Bio: req.Bio, City: req.City,
	})
	if err != nil {
		return fail(c, err)
	}
	return h.Get(c)
}

// UploadPicture accepts a multipart "picture" field.  The type is sniffed
// from the bytes; the client's Content-Type is ignored.
func (h *ProfileHandler) UploadPicture(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	fh, err := c.FormFile("picture")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "picture file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()
	body, err := io.ReadAll(io.LimitReader(f, storage.MaxImageBytes+1))
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	url, err := h.Auth.SetPicture(ctx, uid, body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"picture_url": url})
}
