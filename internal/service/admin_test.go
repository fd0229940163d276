package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micca12/Progetto-IW/internal/apperr"
	"github.com/micca12/Progetto-IW/internal/events"
	"github.com/micca12/Progetto-IW/internal/models"
	"github.com/micca12/Progetto-IW/internal/repo"
	"github.com/micca12/Progetto-IW/internal/transport"
)

func TestAdmin_CreateBrand(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	b, err := env.admin.CreateBrand(ctx, transport.CreateBrandRequest{
		Name: "  Colorificio Nord ", Email: "Nord@Example.com", Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Colorificio Nord", b.Name)
	assert.Equal(t, "nord@example.com", b.Email)
	assert.True(t, b.Active)
	assert.False(t, b.RegisteredAt.IsZero())

	u, err := env.repo.FindUserByEmail(ctx, "nord@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleNameBrand, u.Role.Name)
	assert.Equal(t, "Colorificio Nord", u.FirstName)
	assert.Equal(t, "Account", u.LastName)
	require.NotNil(t, u.BrandID)
	assert.Equal(t, b.ID, *u.BrandID)

	tests := []struct {
		name string
		req  transport.CreateBrandRequest
		msg  string
	}{
		{"duplicate email", transport.CreateBrandRequest{Name: "Altro", Email: "NORD@example.com", Password: "password1"}, "Email già in uso"},
		{"duplicate name", transport.CreateBrandRequest{Name: "Colorificio Nord", Email: "altro@example.com", Password: "password1"}, "Nome marca già esistente"},
		{"missing fields", transport.CreateBrandRequest{Name: "  ", Email: "x@example.com"}, "I seguenti campi sono obbligatori: Nome marca, Password"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.admin.CreateBrand(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperr.Status(err))
			assert.Equal(t, tc.msg, apperr.Message(err))
		})
	}

	list, err := env.admin.Brands(ctx)
	require.NoError(t, err)
	require.Len(t, list.Brands, 1)
	assert.Equal(t, "nord@example.com", *list.Brands[0].Email)
	assert.Zero(t, list.Brands[0].Count.Products)
}

func TestAdmin_DeactivateHidesCatalog(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	brandID := env.brand(t, "Colorificio Nord", "nord@example.com")

	p, err := env.products.Create(ctx, brandID, productInput("Smalto"))
	require.NoError(t, err)

	brands, err := env.catalog.ActiveBrands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 1)

	status, err := env.admin.SetActive(ctx, brandID, false)
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Equal(t, "Colorificio Nord", status.Name)

	// the cached list is invalidated by the admin change
	brands, err = env.catalog.ActiveBrands(ctx)
	require.NoError(t, err)
	assert.Empty(t, brands)

	page, err := env.catalog.Products(ctx, repo.ProductFilter{}, pageOf(1, 12))
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	_, err = env.catalog.Product(ctx, p.ID)
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))
	_, err = env.catalog.Brand(ctx, brandID)
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))

	_, err = env.admin.SetActive(ctx, brandID, true)
	require.NoError(t, err)
	u, err := env.repo.FindUserByEmail(ctx, "nord@example.com")
	require.NoError(t, err)
	assert.True(t, u.Active)

	_, err = env.admin.SetActive(ctx, 999, true)
	require.Error(t, err)
	assert.Equal(t, "Marca non trovata", apperr.Message(err))
	assert.Equal(t, []string{"brand_created", "brand_status_changed", "brand_status_changed"}, env.events.Types(events.TopicBrands))
}

func TestAdmin_DeleteBrand(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	brandID := env.brand(t, "Colorificio Nord", "nord@example.com")

	p, err := env.products.Create(ctx, brandID, productInput("Smalto"))
	require.NoError(t, err)

	err = env.admin.DeleteBrand(ctx, brandID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.Status(err))
	assert.Equal(t, "Non puoi eliminare una marca con prodotti", apperr.Message(err))

	var kept int64
	require.NoError(t, env.repo.DB.Model(&models.Brand{}).Where("id = ?", brandID).Count(&kept).Error)
	assert.EqualValues(t, 1, kept)

	require.NoError(t, env.products.Delete(ctx, brandID, p.ID))
	require.NoError(t, env.admin.DeleteBrand(ctx, brandID))

	var brands, users int64
	require.NoError(t, env.repo.DB.Model(&models.Brand{}).Count(&brands).Error)
	require.NoError(t, env.repo.DB.Model(&models.User{}).Where("email = ?", "nord@example.com").Count(&users).Error)
	assert.Zero(t, brands)
	assert.Zero(t, users)

	err = env.admin.DeleteBrand(ctx, brandID)
	assert.Equal(t, http.StatusNotFound, apperr.Status(err))
}
