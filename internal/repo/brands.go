package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/micca12/Progetto-IW/internal/models"
)

func (r *GormRepo) ActiveBrands(ctx context.Context) ([]models.Brand, error) {
	out := []models.Brand{}
	if err := r.DB.WithContext(ctx).Where("attivo = ?", true).Order("nome ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveBrandWithProducts loads an active brand and a light view of its products.
func (r *GormRepo) ActiveBrandWithProducts(ctx context.Context, id uint) (*models.Brand, error) {
	var b models.Brand
	if err := r.DB.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("nome ASC") }).
		Preload("Products.Brand", func(db *gorm.DB) *gorm.DB { return db.Select("id", "nome", "logo_url") }).
		Preload("Products.Colors", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "prodotto_id", "codice_hex").Order("id ASC")
		}).
		Where("id = ? AND attivo = ?", id, true).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// BrandsForFilter lists active brands having a product linked to the filter.
func (r *GormRepo) BrandsForFilter(ctx context.Context, f LinkFilter) ([]models.Brand, error) {
	q := r.DB.WithContext(ctx).Model(&models.Brand{}).Where("attivo = ?", true)
	if !f.Empty() {
		sub := f.apply(r.links().
			Joins("JOIN prodotti ON prodotti.id = prodotti_ambienti_materiali.prodotto_id").
			Where("prodotti.marca_id = marche.id"))
		q = q.Where("EXISTS (?)", sub)
	}
	out := []models.Brand{}
	if err := q.Order("nome ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type AdminBrandRow struct {
	ID           uint
	Name         string
	LogoURL      *string
	Active       bool
	RegisteredAt time.Time
	ProductCount int64
	Email        *string
	UserID       *uint
}

func (r *GormRepo) AdminBrands(ctx context.Context) ([]AdminBrandRow, error) {
	out := []AdminBrandRow{}
	err := r.DB.WithContext(ctx).Raw(`
SELECT marche.id AS id,
       marche.nome AS name,
       marche.logo_url AS logo_url,
       marche.attivo AS active,
       marche.data_registrazione AS registered_at,
       (SELECT COUNT(*) FROM prodotti WHERE prodotti.marca_id = marche.id) AS product_count,
       utenti.email AS email,
       utenti.id AS user_id
FROM marche
LEFT JOIN utenti ON utenti.marca_id = marche.id
ORDER BY marche.id DESC`).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) FindBrand(ctx context.Context, id uint) (*models.Brand, error) {
	var b models.Brand
	if err := r.DB.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepo) BrandNameExists(ctx context.Context, name string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Brand{}).Where("nome = ?", name).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateBrandWithUser writes the brand and its single account atomically.
func (r *GormRepo) CreateBrandWithUser(ctx context.Context, b *models.Brand, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products", "Users").Create(b).Error; err != nil {
			return err
		}
		u.BrandID = &b.ID
		return tx.Omit("Role", "Brand").Create(u).Error
	})
}

// SetBrandActive toggles the brand and every account bound to it.
func (r *GormRepo) SetBrandActive(ctx context.Context, id uint, active bool) (*models.Brand, error) {
	var b models.Brand
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Brand{}).Where("id = ?", id).Update("attivo", active)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&models.User{}).Where("marca_id = ?", id).Update("attivo", active).Error; err != nil {
			return err
		}
		return tx.First(&b, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepo) CountBrandProducts(ctx context.Context, id uint) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("marca_id = ?", id).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteBrand removes the brand accounts, their favorites and the brand row.
func (r *GormRepo) DeleteBrand(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userIDs []uint
		if err := tx.Model(&models.User{}).Where("marca_id = ?", id).Pluck("id", &userIDs).Error; err != nil {
			return err
		}
		if len(userIDs) > 0 {
			if err := tx.Where("utente_id IN ?", userIDs).Delete(&models.Favorite{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", userIDs).Delete(&models.User{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&models.Brand{}).Error
	})
}
