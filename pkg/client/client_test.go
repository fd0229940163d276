package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	*httptest.Server

	mu           sync.Mutex
	favorites    []Favorite
	queries      []string
	hits         map[string]*atomic.Int32
	failProducts atomic.Bool
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer tok-1"
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{hits: map[string]*atomic.Int32{}}
	for _, k := range []string{"detail", "trending"} {
		fs.hits[k] = &atomic.Int32{}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "password1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenziali non valide"})
			return
		}
		writeJSON(w, http.StatusOK, AuthResponse{
			User:  User{ID: 1, Email: body["email"], FirstName: "Anna", Role: RoleUser},
			Token: "tok-1",
		})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token mancante"})
			return
		}
		writeJSON(w, http.StatusOK, User{ID: 1, Email: "anna@example.com", Role: RoleUser})
	})
	mux.HandleFunc("PUT /api/auth/password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Password attuale non corretta"})
	})
	mux.HandleFunc("GET /api/preferiti", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token mancante"})
			return
		}
		fs.mu.Lock()
		defer fs.mu.Unlock()
		writeJSON(w, http.StatusOK, fs.favorites)
	})
	mux.HandleFunc("POST /api/preferiti", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ProductID uint `json:"prodotto_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		fs.mu.Lock()
		defer fs.mu.Unlock()
		for _, f := range fs.favorites {
			if f.ProductID == body.ProductID {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Prodotto già nei preferiti"})
				return
			}
		}
		fav := Favorite{ID: uint(len(fs.favorites) + 1), UserID: 1, ProductID: body.ProductID}
		fs.favorites = append(fs.favorites, fav)
		writeJSON(w, http.StatusCreated, fav)
	})
	mux.HandleFunc("DELETE /api/preferiti/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Preferito rimosso"})
	})
	mux.HandleFunc("GET /api/marca/prodotti", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"prodotti": []Product{{ID: 4, Name: "Vecchio"}}})
	})
	mux.HandleFunc("POST /api/marca/prodotti", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusCreated, Product{ID: 9, Name: body["nome"].(string), Colors: []Color{}})
	})
	mux.HandleFunc("DELETE /api/marca/prodotti/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "404" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Prodotto non trovato"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Prodotto eliminato"})
	})
	mux.HandleFunc("GET /api/catalogo/ambienti", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Environment{{ID: 1, Name: "Interno"}, {ID: 2, Name: "Esterno"}})
	})
	mux.HandleFunc("GET /api/catalogo/materiali", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Material{{ID: 3, Name: "Metallo"}})
	})
	mux.HandleFunc("GET /api/catalogo/marche-per-filtro", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Brand{{ID: 7, Name: "Colorificio Nord", Active: true}})
	})
	mux.HandleFunc("GET /api/prodotti", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.queries = append(fs.queries, r.URL.RawQuery)
		fs.mu.Unlock()
		if fs.failProducts.Load() {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Errore interno del server"})
			return
		}
		writeJSON(w, http.StatusOK, ProductPage{
			Data:       []Product{{ID: 1, Name: "Smalto"}},
			Pagination: Pagination{Page: 2, Limit: 12, Total: 13, TotalPages: 2},
		})
	})
	mux.HandleFunc("GET /api/prodotti/trending", func(w http.ResponseWriter, r *http.Request) {
		fs.hits["trending"].Add(1)
		writeJSON(w, http.StatusOK, []TrendingProduct{{Product: Product{ID: 1}, FavoritesCount: 3}})
	})
	mux.HandleFunc("GET /api/prodotti/{id}", func(w http.ResponseWriter, r *http.Request) {
		fs.hits["detail"].Add(1)
		if r.PathValue("id") != "1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Prodotto non trovato"})
			return
		}
		writeJSON(w, http.StatusOK, Product{ID: 1, Name: "Smalto"})
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func newApp(t *testing.T, fs *fakeServer) *App {
	t.Helper()
	return NewApp(fs.URL+"/api", NewMemorySession())
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "boom", ErrorMessage(&APIError{Status: 400, Message: "boom"}, "fallback"))
	assert.Equal(t, "fallback", ErrorMessage(&APIError{Status: 500}, "fallback"))
	assert.Equal(t, "Errore di connessione", ErrorMessage(assert.AnError, ""))
}

func TestLoginPersistsToken(t *testing.T) {
	t.Parallel()
	fs := newFakeServer(t)
	path := filepath.Join(t.TempDir(), "session.json")

	sess, err := OpenSession(path)
	require.NoError(t, err)
	app := NewApp(fs.URL+"/api", sess)
	ctx := context.Background()

	require.NoError(t, app.Auth.Login(ctx, "  anna@example.com ", "password1"))
	assert.True(t, app.Auth.IsAuthenticated())
	assert.False(t, app.Auth.IsAdmin())
	assert.Equal(t, "anna@example.com", app.Auth.User().Email)

	reopened, err := OpenSession(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", reopened.Token())

	// a fresh app picks up the stored token and can load the profile
	again := NewApp(fs.URL+"/api", reopened)
	require.NoError(t, again.Auth.FetchCurrentUser(ctx))
	require.NotNil(t, again.Auth.User())
	assert.Equal(t, uint(1), again.Auth.User().ID)
}

func TestLoginFailure(t *testing.T) {
	t.Parallel()
	app := newApp(t, newFakeServer(t))

	err := app.Auth.Login(context.Background(), "anna@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Credenziali non valide", app.Auth.Err())
	assert.False(t, app.Auth.IsAuthenticated())
	assert.False(t, app.Auth.Loading())
}

func TestUpdatePasswordUsesMessageField(t *testing.T) {
	t.Parallel()
	app := newApp(t, newFakeServer(t))

	require.Error(t, app.Auth.UpdatePassword(context.Background(), "old", "newpassword"))
	assert.Equal(t, "Password attuale non corretta", app.Auth.Err())
}

func TestUnauthorizedEndsSession(t *testing.T) {
	t.Parallel()
	fs := newFakeServer(t)
	app := newApp(t, fs)

	// a token the server does not accept
	require.NoError(t, app.Session.SetToken("stale"))
	app.Auth = NewAuthStore(app.API)
	require.True(t, app.Auth.IsAuthenticated())

	require.NoError(t, app.Favorites.Fetch(context.Background()))
	assert.Empty(t, app.Favorites.Favorites())
	assert.Empty(t, app.Favorites.Err())
	assert.False(t, app.Auth.IsAuthenticated())
	assert.Empty(t, app.Session.Token())
}

func TestFavorites(t *testing.T) {
	t.Parallel()
	fs := newFakeServer(t)
	app := newApp(t, fs)
	ctx := context.Background()
	require.NoError(t, app.Auth.Login(ctx, "anna@example.com", "password1"))

	require.NoError(t, app.Favorites.Fetch(ctx))
	assert.True(t, app.Favorites.Initialized())
	assert.Zero(t, app.Favorites.Count())

	on, err := app.Favorites.Toggle(ctx, 5)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, app.Favorites.IsFavorite(5))
	assert.Equal(t, 1, app.Favorites.Count())

	// a second add is rejected by the server and leaves local state alone
	require.Error(t, app.Favorites.Add(ctx, 5))
	assert.Equal(t, "Prodotto già nei preferiti", app.Favorites.Err())
	assert.Equal(t, 1, app.Favorites.Count())

	on, err = app.Favorites.Toggle(ctx, 5)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, app.Favorites.IsFavorite(5))
	assert.Zero(t, app.Favorites.Count())
	assert.Zero(t, app.Favorites.Toggling())

	require.NoError(t, app.Logout())
	assert.False(t, app.Favorites.Initialized())
}

func TestBrandStore(t *testing.T) {
	t.Parallel()
	app := newApp(t, newFakeServer(t))
	ctx := context.Background()

	require.NoError(t, app.Brand.Fetch(ctx))
	require.Equal(t, 1, app.Brand.Count())

	_, err := app.Brand.Create(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	id, err := app.Brand.Create(ctx, "  Nuovo smalto ")
	require.NoError(t, err)
	assert.Equal(t, uint(9), id)
	products := app.Brand.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "Nuovo smalto", products[0].Name)

	require.NoError(t, app.Brand.Delete(ctx, 4))
	assert.Equal(t, 1, app.Brand.Count())
	assert.False(t, app.Brand.IsDeleting(4))

	require.Error(t, app.Brand.Delete(ctx, 404))
	assert.Equal(t, "Prodotto non trovato", app.Brand.Err())

	app.Brand.Reset()
	assert.Zero(t, app.Brand.Count())
	assert.Empty(t, app.Brand.Err())
}

func TestCatalogStore(t *testing.T) {
	t.Parallel()
	fs := newFakeServer(t)
	app := newApp(t, fs)
	ctx := context.Background()

	require.NoError(t, app.Catalog.Init(ctx))
	assert.Len(t, app.Catalog.Environments(), 2)
	assert.Len(t, app.Catalog.Materials(), 1)
	assert.Len(t, app.Catalog.Brands(), 1)
	require.NoError(t, app.Catalog.Init(ctx))

	require.NoError(t, app.Catalog.FetchProducts(ctx, Filters{Environment: "esterno", Material: "METALLO", Brand: "Sconosciuta"}, 2))
	assert.Len(t, app.Catalog.Products(), 1)
	assert.Equal(t, int64(13), app.Catalog.Pagination().Total)

	require.NoError(t, app.Catalog.SetPage(ctx, 3))

	fs.mu.Lock()
	queries := append([]string(nil), fs.queries...)
	fs.mu.Unlock()
	require.Len(t, queries, 2)
	assert.Equal(t, "ambiente_id=2&limit=12&materiale_id=3&page=2", queries[0])
	assert.Equal(t, "ambiente_id=2&limit=12&materiale_id=3&page=3", queries[1])

	p, err := app.Catalog.FetchDetail(ctx, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "Smalto", p.Name)
	_, err = app.Catalog.FetchDetail(ctx, 1, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, fs.hits["detail"].Load())
	_, err = app.Catalog.FetchDetail(ctx, 1, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, fs.hits["detail"].Load())

	_, err = app.Catalog.FetchDetail(ctx, 2, false)
	require.Error(t, err)
	assert.Nil(t, app.Catalog.Current())
	assert.Equal(t, "Prodotto non trovato", app.Catalog.Err())

	for i := 0; i < 2; i++ {
		tr, err := app.Catalog.FetchTrending(ctx)
		require.NoError(t, err)
		require.Len(t, tr, 1)
		assert.Equal(t, int64(3), tr[0].FavoritesCount)
	}
	assert.EqualValues(t, 1, fs.hits["trending"].Load())

	app.Catalog.ClearCache()
	_, err = app.Catalog.FetchTrending(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, fs.hits["trending"].Load())
}

func TestCatalogStore_FailedFetchKeepsState(t *testing.T) {
	t.Parallel()
	fs := newFakeServer(t)
	app := newApp(t, fs)
	ctx := context.Background()

	require.NoError(t, app.Catalog.Init(ctx))
	first := Filters{Environment: "Interno"}
	require.NoError(t, app.Catalog.FetchProducts(ctx, first, 2))
	require.Len(t, app.Catalog.Products(), 1)
	pagination := app.Catalog.Pagination()

	fs.failProducts.Store(true)
	err := app.Catalog.FetchProducts(ctx, Filters{Brand: "Colorificio Nord"}, 1)
	require.Error(t, err)

	assert.Equal(t, "Errore interno del server", app.Catalog.Err())
	assert.Len(t, app.Catalog.Products(), 1)
	assert.Equal(t, first, app.Catalog.Filters())
	assert.Equal(t, pagination, app.Catalog.Pagination())
	assert.False(t, app.Catalog.Loading().Catalog)
}

func TestLogoutReportsUnsavedToken(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	sess, err := OpenSession(path)
	require.NoError(t, err)
	require.NoError(t, sess.SetToken("tok-1"))

	// the temp file used for the atomic rewrite cannot be created
	require.NoError(t, os.Mkdir(path+".tmp", 0o700))

	app := NewApp(newFakeServer(t).URL+"/api", sess)
	require.True(t, app.Auth.IsAuthenticated())

	err = app.Logout()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear session token")
	assert.False(t, app.Auth.IsAuthenticated())
	assert.Empty(t, sess.Token())

	onDisk, err := OpenSession(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", onDisk.Token())
}

func TestSessionTheme(t *testing.T) {
	t.Parallel()

	s := NewMemorySession()
	s.PrefersDark = func() bool { return true }
	assert.Equal(t, ThemeDark, s.Theme())

	s.PrefersDark = func() bool { return false }
	assert.Equal(t, ThemeLight, s.Theme())

	theme, err := s.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	// a stored choice wins over the OS preference
	s.PrefersDark = func() bool { return false }
	assert.True(t, s.IsDark())
}
