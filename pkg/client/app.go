package client

import "log/slog"

// App wires the stores around one API and session. Any 401 from the
// server ends the session through Logout.
type App struct {
	API       *API
	Session   *Session
	Auth      *AuthStore
	Favorites *FavoritesStore
	Brand     *BrandStore
	Catalog   *CatalogStore
}

func NewApp(baseURL string, s *Session) *App {
	if s == nil {
		s = NewMemorySession()
	}
	api := NewAPI(baseURL, s)
	a := &App{
		API:       api,
		Session:   s,
		Auth:      NewAuthStore(api),
		Favorites: NewFavoritesStore(api),
		Brand:     NewBrandStore(api),
		Catalog:   NewCatalogStore(api),
	}
	api.OnUnauthorized = func() {
		if err := a.Logout(); err != nil {
			slog.Default().Warn("logout_failed", "reason", "unauthorized", "err", err)
		}
	}
	return a
}

// Logout clears the token and resets every store. Stores are reset even
// when the session file could not be rewritten.
func (a *App) Logout() error {
	err := a.Auth.Logout()
	a.Favorites.Clear()
	a.Brand.Reset()
	a.Catalog.Reset()
	return err
}
