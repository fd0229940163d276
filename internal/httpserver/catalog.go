package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/repo"
	"github.com/micca12/Progetto-IW/internal/service"
	"github.com/micca12/Progetto-IW/internal/validate"
)

// CatalogHTTP serves the public, unauthenticated routes.
type CatalogHTTP struct {
	Svc *service.CatalogService
}

func linkFilter(c echo.Context) (repo.LinkFilter, error) {
	envID, err := validate.OptionalID(c.QueryParam("ambiente_id"), "ID ambiente")
	if err != nil {
		return repo.LinkFilter{}, err
	}
	matID, err := validate.OptionalID(c.QueryParam("materiale_id"), "ID materiale")
	if err != nil {
		return repo.LinkFilter{}, err
	}
	return repo.LinkFilter{EnvironmentID: envID, MaterialID: matID}, nil
}

func (h *CatalogHTTP) Brands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.brands")

	brands, err := h.Svc.ActiveBrands(ctx)
	if err != nil {
		return fail(l, "get_brands_failed", err)
	}
	return c.JSON(http.StatusOK, brands)
}

func (h *CatalogHTTP) Brand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.brand")

	id, err := validate.ParseID(c.Param("id"), "ID marca")
	if err != nil {
		return fail(l, "get_brand_failed", err)
	}
	b, err := h.Svc.Brand(ctx, id)
	if err != nil {
		return fail(l, "get_brand_failed", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHTTP) Environments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.environments")

	out, err := h.Svc.Environments(ctx)
	if err != nil {
		return fail(l, "get_environments_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) Materials(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.materials")

	envID, err := validate.OptionalID(c.QueryParam("ambiente_id"), "ID ambiente")
	if err != nil {
		return fail(l, "get_materials_failed", err)
	}
	out, err := h.Svc.Materials(ctx, envID)
	if err != nil {
		return fail(l, "get_materials_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) Dimensions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.dimensions")

	out, err := h.Svc.Dimensions(ctx)
	if err != nil {
		return fail(l, "get_dimensions_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) BrandsForFilter(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.brands_for_filter")

	f, err := linkFilter(c)
	if err != nil {
		return fail(l, "get_brands_for_filter_failed", err)
	}
	out, err := h.Svc.BrandsForFilter(ctx, f)
	if err != nil {
		return fail(l, "get_brands_for_filter_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.products")

	lf, err := linkFilter(c)
	if err != nil {
		return fail(l, "get_products_failed", err)
	}
	brandID, err := validate.OptionalID(c.QueryParam("marca_id"), "ID marca")
	if err != nil {
		return fail(l, "get_products_failed", err)
	}
	page := validate.ParsePagination(c.QueryParam("page"), c.QueryParam("limit"))

	out, err := h.Svc.Products(ctx, repo.ProductFilter{BrandID: brandID, LinkFilter: lf}, page)
	if err != nil {
		return fail(l, "get_products_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) Trending(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.trending")

	out, err := h.Svc.Trending(ctx)
	if err != nil {
		return fail(l, "get_trending_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	page := validate.ParsePagination(c.QueryParam("page"), c.QueryParam("limit"))
	out, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page)
	if err != nil {
		return fail(l, "search_failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product")

	id, err := validate.ParseID(c.Param("id"), "ID prodotto")
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	p, err := h.Svc.Product(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}
