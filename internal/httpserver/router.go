package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/micca12/Progetto-IW/internal/middleware/auth"
)

type Deps struct {
	Auth          *auth.Middleware
	AuthLimiter   echo.MiddlewareFunc
	AuthHTTP      *AuthHTTP
	CatalogHTTP   *CatalogHTTP
	BrandProducts *BrandProductsHTTP
	FavoritesHTTP *FavoritesHTTP
	AdminHTTP     *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	limited := []echo.MiddlewareFunc{}
	if d.AuthLimiter != nil {
		limited = append(limited, d.AuthLimiter)
	}

	authg := api.Group("/auth")
	authg.POST("/register", d.AuthHTTP.Register, limited...)
	authg.POST("/login", d.AuthHTTP.Login, limited...)
	authg.GET("/me", d.AuthHTTP.Me, d.Auth.RequireAuth)
	authg.PUT("/me", d.AuthHTTP.UpdateMe, d.Auth.RequireAuth)
	authg.PUT("/password", d.AuthHTTP.ChangePassword, d.Auth.RequireAuth)

	api.GET("/marche", d.CatalogHTTP.Brands)
	api.GET("/marche/:id", d.CatalogHTTP.Brand)

	catalog := api.Group("/catalogo")
	catalog.GET("/ambienti", d.CatalogHTTP.Environments)
	catalog.GET("/materiali", d.CatalogHTTP.Materials)
	catalog.GET("/dimensioni", d.CatalogHTTP.Dimensions)
	catalog.GET("/marche-per-filtro", d.CatalogHTTP.BrandsForFilter)

	products := api.Group("/prodotti")
	products.GET("", d.CatalogHTTP.Products)
	products.GET("/trending", d.CatalogHTTP.Trending)
	products.GET("/cerca", d.CatalogHTTP.Search)
	products.GET("/:id", d.CatalogHTTP.Product)

	brand := api.Group("/marca/prodotti", d.Auth.RequireBrand)
	brand.GET("", d.BrandProducts.List)
	brand.GET("/:id", d.BrandProducts.Get)
	brand.POST("", d.BrandProducts.Create)
	brand.PUT("/:id", d.BrandProducts.Update)
	brand.DELETE("/:id", d.BrandProducts.Delete)

	favorites := api.Group("/preferiti", d.Auth.RequireAuth)
	favorites.GET("", d.FavoritesHTTP.List)
	favorites.POST("", d.FavoritesHTTP.Add)
	favorites.DELETE("/:prodotto_id", d.FavoritesHTTP.Remove)

	admin := api.Group("/admin/marche", d.Auth.RequireAdmin)
	admin.GET("", d.AdminHTTP.List)
	admin.POST("", d.AdminHTTP.Create)
	admin.PUT("/:id", d.AdminHTTP.SetActive)
	admin.DELETE("/:id", d.AdminHTTP.Delete)
}
