package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/service"
	"github.com/micca12/Progetto-IW/internal/transport"
	"github.com/micca12/Progetto-IW/internal/validate"
)

type FavoritesHTTP struct {
	Svc *service.FavoriteService
}

func (h *FavoritesHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites.list")

	p, err := principal(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.List(ctx, p.UserID)
	if err != nil {
		return fail(l, "list_favorites_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *FavoritesHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites.add")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.AddFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "add_favorite_failed", err)
	}

	f, err := h.Svc.Add(ctx, p.UserID, req.ProductID)
	if err != nil {
		return fail(l, "add_favorite_failed", err)
	}

	l.Info("add_favorite_success", "product_id", f.ProductID)
	return c.JSON(http.StatusCreated, f)
}

func (h *FavoritesHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites.remove")

	p, err := principal(c)
	if err != nil {
		return err
	}
	productID, err := validate.ParseID(c.Param("prodotto_id"), "ID prodotto")
	if err != nil {
		return fail(l, "remove_favorite_failed", err)
	}
	if err := h.Svc.Remove(ctx, p.UserID, productID); err != nil {
		return fail(l, "remove_favorite_failed", err)
	}

	l.Info("remove_favorite_success", "product_id", productID)
	return c.JSON(http.StatusOK, transport.Message{Message: "Preferito rimosso"})
}
