//go:build integration

package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/micca12/Progetto-IW/internal/models"
)

func setupPostgres(t *testing.T) string {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalogo"),
		postgres.WithUsername("catalogo"),
		postgres.WithPassword("catalogo"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgres_MigrateAndSeed(t *testing.T) {
	dsn := setupPostgres(t)
	ctx := context.Background()

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Seed(ctx, db, SeedOptions{AdminEmail: "admin@example.com", AdminPassword: "adminpass1"}))

	var roles int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	require.EqualValues(t, 3, roles)

	// second brand user for the same brand must be rejected by the unique index
	brand := models.Brand{Name: "Colorificio", Active: true}
	require.NoError(t, db.Create(&brand).Error)
	var role models.Role
	require.NoError(t, db.Where("nome = ?", models.RoleNameBrand).First(&role).Error)

	u1 := models.User{Email: "a@c.it", PasswordHash: "x", FirstName: "A", LastName: "Account", RoleID: role.ID, BrandID: &brand.ID, Active: true}
	u2 := models.User{Email: "b@c.it", PasswordHash: "x", FirstName: "B", LastName: "Account", RoleID: role.ID, BrandID: &brand.ID, Active: true}
	require.NoError(t, db.Create(&u1).Error)
	require.Error(t, db.Create(&u2).Error)
}
