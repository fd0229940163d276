package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/micca12/Progetto-IW/internal/models"
)

// LinkFilter narrows lookups to rows with at least one matching product link.
type LinkFilter struct {
	EnvironmentID *uint
	MaterialID    *uint
}

func (f LinkFilter) Empty() bool { return f.EnvironmentID == nil && f.MaterialID == nil }

func (f LinkFilter) apply(q *gorm.DB) *gorm.DB {
	if f.EnvironmentID != nil {
		q = q.Where("prodotti_ambienti_materiali.ambiente_id = ?", *f.EnvironmentID)
	}
	if f.MaterialID != nil {
		q = q.Where("prodotti_ambienti_materiali.materiale_id = ?", *f.MaterialID)
	}
	return q
}

func (r *GormRepo) links() *gorm.DB {
	return r.DB.Session(&gorm.Session{NewDB: true}).Model(&models.ProductEnvironmentMaterial{}).Select("1")
}

func (r *GormRepo) Environments(ctx context.Context) ([]models.Environment, error) {
	out := []models.Environment{}
	if err := r.DB.WithContext(ctx).Order("nome ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) Materials(ctx context.Context, environmentID *uint) ([]models.Material, error) {
	q := r.DB.WithContext(ctx).Model(&models.Material{})
	if environmentID != nil {
		sub := r.links().
			Where("prodotti_ambienti_materiali.materiale_id = materiali.id").
			Where("prodotti_ambienti_materiali.ambiente_id = ?", *environmentID)
		q = q.Where("EXISTS (?)", sub)
	}
	out := []models.Material{}
	if err := q.Order("nome ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) Dimensions(ctx context.Context) ([]models.Dimension, error) {
	out := []models.Dimension{}
	if err := r.DB.WithContext(ctx).Order("litri ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
