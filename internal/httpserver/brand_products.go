package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/service"
	"github.com/micca12/Progetto-IW/internal/transport"
	"github.com/micca12/Progetto-IW/internal/validate"
)

// BrandProductsHTTP is mounted behind RequireBrand; the brand id always
// comes from the token, never from the request.
type BrandProductsHTTP struct {
	Svc *service.ProductService
}

func (h *BrandProductsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand_products.list")

	p, err := principal(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.List(ctx, p.BrandID)
	if err != nil {
		return fail(l, "list_brand_products_failed", err)
	}
	return c.JSON(http.StatusOK, transport.BrandProducts{Products: items})
}

func (h *BrandProductsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand_products.get")

	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := validate.ParseID(c.Param("id"), "ID prodotto")
	if err != nil {
		return fail(l, "get_brand_product_failed", err)
	}
	prod, err := h.Svc.Get(ctx, p.BrandID, id)
	if err != nil {
		return fail(l, "get_brand_product_failed", err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *BrandProductsHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand_products.create")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.ProductInput
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_product_failed", err)
	}

	prod, err := h.Svc.Create(ctx, p.BrandID, req)
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *BrandProductsHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand_products.update")

	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := validate.ParseID(c.Param("id"), "ID prodotto")
	if err != nil {
		return fail(l, "update_product_failed", err)
	}
	var req transport.ProductInput
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_product_failed", err)
	}

	prod, err := h.Svc.Update(ctx, p.BrandID, id, req)
	if err != nil {
		return fail(l, "update_product_failed", err)
	}

	l.Info("update_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *BrandProductsHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand_products.delete")

	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := validate.ParseID(c.Param("id"), "ID prodotto")
	if err != nil {
		return fail(l, "delete_product_failed", err)
	}
	if err := h.Svc.Delete(ctx, p.BrandID, id); err != nil {
		return fail(l, "delete_product_failed", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.Message{Message: "Prodotto eliminato"})
}
