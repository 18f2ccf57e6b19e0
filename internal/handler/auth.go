package handler // handler package contains login, registration and password handlers

import (
	"net/http" // HTTP status codes
	"time"     // expiry in the session response

	"github.com/labstack/echo/v4" // Echo context and JSON helpers

	"github.com/iliyamo/services-marketplace/internal/model"   // roles
	"github.com/iliyamo/services-marketplace/internal/service" // auth service and sessions
)

// AuthHandler serves login, registration and password reset.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(a *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type googleLoginReq struct {
	Token string `json:"token"`
}

type registerReq struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=32"`
	City     string `json:"city" validate:"max=120"`
}

type forgotReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetReq struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type userPart struct {
	ID         uint64        `json:"id"`
	ClientID   *uint64       `json:"id_client"`
	ProviderID *uint64       `json:"id_provider"`
	Email      string        `json:"email"`
	FullName   string        `json:"full_name"`
	Roles      model.RoleSet `json:"roles"`
}

type sessionResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userPart  `json:"user"`
}

func newSessionResp(s service.Session) sessionResp {
	return sessionResp{
		Token:     s.Token.Token,
		ExpiresAt: s.Token.Exp,
		User: userPart{
			ID:         s.User.ID,
			ClientID:   s.Profiles.ClientID,
			ProviderID: s.Profiles.ProviderID,
			Email:      s.User.Email,
			FullName:   s.User.FullName,
			Roles:      s.Roles,
		},
	}
}

// Login: local email and password.
func (h *AuthHandler) Login(c echo.Context) error {
	// Parse and validate the JSON body.
	var req loginReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	// Every credential failure comes back as the same 401.
	s, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, newSessionResp(s))
}

// LoginGoogle exchanges a Google ID token for a session.  A missing token
// is reported by the service so the message stays the same for an absent
// and a blank field.
func (h *AuthHandler) LoginGoogle(c echo.Context) error {
	// Bind only; validation would answer 400 with a different message.
	var req googleLoginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, errBadBody)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Auth.LoginWithGoogle(ctx, req.Token)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, newSessionResp(s))
}

func (h *AuthHandler) RegisterClient(c echo.Context) error {
	return h.register(c, model.RoleClient)
}

func (h *AuthHandler) RegisterProvider(c echo.Context) error {
	return h.register(c, model.RoleProvider)
}

// register answers 201 both for a new account and for a role added to an
// existing one; in either case a profile row was created.
func (h *AuthHandler) register(c echo.Context, role model.Role) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, _, err := h.Auth.Register(ctx, role, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, newSessionResp(s))
}

// ForgotPassword always answers 202 so it cannot be used to discover emails.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ForgotPassword(ctx, req.Email); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ResetPassword(ctx, req.Token, req.Password); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
