package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/micca12/Progetto-IW/internal/cache"
	"github.com/micca12/Progetto-IW/internal/db"
	"github.com/micca12/Progetto-IW/internal/events"
	"github.com/micca12/Progetto-IW/internal/repo"
	"github.com/micca12/Progetto-IW/internal/tokens"
	"github.com/micca12/Progetto-IW/internal/transport"
	"github.com/micca12/Progetto-IW/internal/validate"
)

type testEnv struct {
	repo      *repo.GormRepo
	events    *events.Recorder
	issuer    *tokens.Issuer
	auth      *AuthService
	catalog   *CatalogService
	products  *ProductService
	favorites *FavoriteService
	admin     *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(ctx, gdb))
	require.NoError(t, db.Seed(ctx, gdb, db.SeedOptions{}))

	r := repo.New(gdb)
	rec := &events.Recorder{}
	issuer := tokens.NewIssuer([]byte("test-secret"), time.Hour)
	catalog := &CatalogService{Repo: r, Cache: cache.New(time.Minute)}

	return &testEnv{
		repo:      r,
		events:    rec,
		issuer:    issuer,
		auth:      &AuthService{Repo: r, Tokens: issuer, Events: rec},
		catalog:   catalog,
		products:  &ProductService{Repo: r, Events: rec},
		favorites: &FavoriteService{Repo: r, Events: rec},
		admin:     &AdminService{Repo: r, Events: rec, Catalog: catalog},
	}
}

// brand creates a brand account and returns its id.
func (e *testEnv) brand(t *testing.T, name, email string) uint {
	t.Helper()
	b, err := e.admin.CreateBrand(context.Background(), transport.CreateBrandRequest{
		Name: name, Email: email, Password: "password1",
	})
	require.NoError(t, err)
	return b.ID
}

func (e *testEnv) user(t *testing.T, email string) transport.User {
	t.Helper()
	res, err := e.auth.Register(context.Background(), transport.RegisterRequest{
		Email: email, Password: "password1", FirstName: "Anna", LastName: "Rossi",
	})
	require.NoError(t, err)
	return res.User
}

func strp(s string) *string { return &s }

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func pageOf(page, limit int) validate.Page {
	return validate.ParsePagination(strconv.Itoa(page), strconv.Itoa(limit))
}

// productInput has two colors, the first priced at two sizes given out of order.
func productInput(name string) transport.ProductInput {
	coats := 2
	return transport.ProductInput{
		Name:        name,
		Description: strp("  Smalto all'acqua  "),
		Coats:       &coats,
		Links:       []transport.LinkInput{{EnvironmentID: 1, MaterialID: 1}},
		Colors: []transport.ColorInput{
			{
				Name:    "Bianco",
				HexCode: "#ffffff",
				Prices: []transport.PriceInput{
					{DimensionID: 3, Amount: decimal.RequireFromString("30.50")},
					{DimensionID: 1, Amount: decimal.RequireFromString("9.90")},
				},
			},
			{
				Name:    "Rosso",
				HexCode: "#aa0000",
				Prices:  []transport.PriceInput{{DimensionID: 2, Amount: decimal.RequireFromString("18")}},
			},
		},
	}
}
