package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/service"
	"github.com/micca12/Progetto-IW/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "register_failed", err)
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_failed", err)
	}

	l.Info("register_success", "user_id", res.User.ID)
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "login_failed", err)
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	p, err := principal(c)
	if err != nil {
		return err
	}
	u, err := h.Svc.Me(ctx, p)
	if err != nil {
		return fail(l, "me_failed", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHTTP) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_me")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_me_failed", err)
	}

	res, err := h.Svc.UpdateProfile(ctx, p, req)
	if err != nil {
		return fail(l, "update_me_failed", err)
	}

	l.Info("update_me_success")
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.change_password")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "change_password_failed", err)
	}

	if err := h.Svc.ChangePassword(ctx, p, req); err != nil {
		return fail(l, "change_password_failed", err)
	}

	l.Info("change_password_success")
	return c.JSON(http.StatusOK, transport.Message{Message: "Password aggiornata con successo"})
}
