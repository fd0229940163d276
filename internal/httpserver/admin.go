package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/service"
	"github.com/micca12/Progetto-IW/internal/transport"
	"github.com/micca12/Progetto-IW/internal/validate"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_brands")

	out, err := h.Svc.Brands(ctx)
	if err != nil {
		return fail(l, "list_brands_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_brand")

	var req transport.CreateBrandRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_brand_failed", err)
	}

	b, err := h.Svc.CreateBrand(ctx, req)
	if err != nil {
		return fail(l, "create_brand_failed", err)
	}

	l.Info("create_brand_success", "brand_id", b.ID)
	return c.JSON(http.StatusCreated, b)
}

func (h *AdminHTTP) SetActive(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.set_brand_active")

	id, err := validate.ParseID(c.Param("id"), "ID marca")
	if err != nil {
		return fail(l, "set_brand_active_failed", err)
	}
	var req transport.SetBrandActiveRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "set_brand_active_failed", err)
	}

	out, err := h.Svc.SetActive(ctx, id, req.Active)
	if err != nil {
		return fail(l, "set_brand_active_failed", err)
	}

	l.Info("set_brand_active_success", "brand_id", id, "active", out.Active)
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_brand")

	id, err := validate.ParseID(c.Param("id"), "ID marca")
	if err != nil {
		return fail(l, "delete_brand_failed", err)
	}
	if err := h.Svc.DeleteBrand(ctx, id); err != nil {
		return fail(l, "delete_brand_failed", err)
	}

	l.Info("delete_brand_success", "brand_id", id)
	return c.JSON(http.StatusOK, transport.Message{Message: "Marca eliminata"})
}
