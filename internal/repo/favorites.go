package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/micca12/Progetto-IW/internal/models"
)

func (r *GormRepo) Favorites(ctx context.Context, userID uint) ([]models.Favorite, error) {
	out := []models.Favorite{}
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Preload("Product.Brand").
		Preload("Product.Colors", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("utente_id = ?", userID).
		Order("data_aggiunta DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) FindFavorite(ctx context.Context, userID, productID uint) (*models.Favorite, error) {
	var f models.Favorite
	if err := r.DB.WithContext(ctx).
		Where("utente_id = ? AND prodotto_id = ?", userID, productID).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFavorite returns the row with product and brand loaded.
func (r *GormRepo) CreateFavorite(ctx context.Context, userID, productID uint) (*models.Favorite, error) {
	f := models.Favorite{UserID: userID, ProductID: productID}
	if err := r.DB.WithContext(ctx).Create(&f).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Preload("Product.Brand").
		First(&f, f.ID).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *GormRepo) DeleteFavorite(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Favorite{}).Error
}
