package repo

import (
	"sort"

	"gorm.io/gorm"

	"github.com/micca12/Progetto-IW/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func activeBrandIDs(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Brand{}).
		Select("id").
		Where("attivo = ?", true)
}

// fullInclude loads brand, colors with priced sizes and environment/material links.
func fullInclude(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Brand").
		Preload("Colors", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Colors.Prices.Dimension").
		Preload("Links", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Links.Environment").
		Preload("Links.Material")
}

// sortPrices orders every color's prices by liters ascending.
func sortPrices(products ...*models.Product) {
	for _, p := range products {
		for ci := range p.Colors {
			prices := p.Colors[ci].Prices
			sort.SliceStable(prices, func(i, j int) bool {
				a, b := prices[i].Dimension, prices[j].Dimension
				if a == nil || b == nil {
					return prices[i].ID < prices[j].ID
				}
				return a.Liters.LessThan(b.Liters)
			})
		}
	}
}

func sortAll(products []models.Product) {
	for i := range products {
		sortPrices(&products[i])
	}
}
