package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/micca12/Progetto-IW/internal/hash"
	"github.com/micca12/Progetto-IW/internal/models"
)

func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// SeedOptions controls the reference data written by Seed.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

var (
	seedDimensions   = []string{"0.75", "2.5", "5", "14"}
	seedEnvironments = []string{"Interno", "Esterno", "Bagno", "Cucina"}
	seedMaterials    = []string{"Muro", "Legno", "Metallo", "Cemento", "Cartongesso"}
)

// Seed is idempotent: rows that already exist are left alone.
func Seed(ctx context.Context, db *gorm.DB, opt SeedOptions) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range []string{models.RoleNameAdmin, models.RoleNameUser, models.RoleNameBrand} {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Role{Name: name}).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", name, err)
			}
		}

		var dims int64
		if err := tx.Model(&models.Dimension{}).Count(&dims).Error; err != nil {
			return err
		}
		if dims == 0 {
			for _, l := range seedDimensions {
				if err := tx.Create(&models.Dimension{Liters: decimal.RequireFromString(l)}).Error; err != nil {
					return fmt.Errorf("seed dimension: %w", err)
				}
			}
		}

		for _, name := range seedEnvironments {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Environment{Name: name}).Error; err != nil {
				return fmt.Errorf("seed environment: %w", err)
			}
		}
		for _, name := range seedMaterials {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Material{Name: name}).Error; err != nil {
				return fmt.Errorf("seed material: %w", err)
			}
		}

		if opt.AdminEmail == "" || opt.AdminPassword == "" {
			return nil
		}
		return seedAdmin(tx, opt)
	})
}

func seedAdmin(tx *gorm.DB, opt SeedOptions) error {
	var existing models.User
	err := tx.Where("email = ?", opt.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var role models.Role
	if err := tx.Where("nome = ?", models.RoleNameAdmin).First(&role).Error; err != nil {
		return fmt.Errorf("admin role: %w", err)
	}
	pw, err := hash.HashPassword(opt.AdminPassword)
	if err != nil {
		return err
	}
	admin := models.User{
		Email:        opt.AdminEmail,
		PasswordHash: pw,
		FirstName:    "Admin",
		LastName:     "Catalogo",
		RoleID:       role.ID,
		Active:       true,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
