package repo

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/micca12/Progetto-IW/internal/models"
)

type ProductFilter struct {
	BrandID *uint
	LinkFilter
}

func (r *GormRepo) productScope(f ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		q = q.Where("prodotti.marca_id IN (?)", activeBrandIDs(r.DB))
		if f.BrandID != nil {
			q = q.Where("prodotti.marca_id = ?", *f.BrandID)
		}
		if !f.LinkFilter.Empty() {
			sub := f.LinkFilter.apply(r.links().Where("prodotti_ambienti_materiali.prodotto_id = prodotti.id"))
			q = q.Where("EXISTS (?)", sub)
		}
		return q
	}
}

// ProductCards returns a page of the light projection and the total, queried concurrently.
func (r *GormRepo) ProductCards(ctx context.Context, f ProductFilter, offset, limit int) ([]models.Product, int64, error) {
	var (
		items []models.Product
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.DB.WithContext(gctx).
			Model(&models.Product{}).
			Scopes(r.productScope(f)).
			Count(&total).Error
	})
	g.Go(func() error {
		return r.DB.WithContext(gctx).
			Select("prodotti.id", "prodotti.marca_id", "prodotti.nome").
			Scopes(r.productScope(f)).
			Preload("Brand", func(db *gorm.DB) *gorm.DB { return db.Select("id", "nome") }).
			Preload("Colors", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "prodotto_id", "codice_hex").Order("id ASC")
			}).
			Order("prodotti.nome ASC").
			Order("prodotti.id ASC").
			Offset(offset).
			Limit(limit).
			Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []models.Product{}
	}
	return items, total, nil
}

// ProductCardsByIDs keeps the order of ids and drops products of inactive brands.
func (r *GormRepo) ProductCardsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Select("prodotti.id", "prodotti.marca_id", "prodotti.nome").
		Scopes(r.productScope(ProductFilter{})).
		Where("prodotti.id IN ?", ids).
		Preload("Brand", func(db *gorm.DB) *gorm.DB { return db.Select("id", "nome") }).
		Preload("Colors", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "prodotto_id", "codice_hex").Order("id ASC")
		}).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return reorder(items, ids), nil
}

type TrendingRow struct {
	ProductID uint
	Favorites int64
}

// Trending returns the most favorited products of active brands with their counts.
func (r *GormRepo) Trending(ctx context.Context, limit int) ([]models.Product, []TrendingRow, error) {
	var rows []TrendingRow
	if err := r.DB.WithContext(ctx).
		Table("preferiti").
		Select("preferiti.prodotto_id AS product_id, COUNT(*) AS favorites").
		Joins("JOIN prodotti ON prodotti.id = preferiti.prodotto_id").
		Where("prodotti.marca_id IN (?)", activeBrandIDs(r.DB)).
		Group("preferiti.prodotto_id").
		Order("favorites DESC").
		Order("preferiti.prodotto_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return []models.Product{}, rows, nil
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ProductID
	}
	var items []models.Product
	if err := fullInclude(r.DB.WithContext(ctx)).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, nil, err
	}
	sortAll(items)
	return reorder(items, ids), rows, nil
}

func reorder(items []models.Product, ids []uint) []models.Product {
	byID := make(map[uint]models.Product, len(items))
	for _, p := range items {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(items))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ActiveProduct loads a product with the full include if its brand is active.
func (r *GormRepo) ActiveProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := fullInclude(r.DB.WithContext(ctx)).
		Scopes(r.productScope(ProductFilter{})).
		Where("prodotti.id = ?", id).
		First(&p).Error; err != nil {
		return nil, err
	}
	sortPrices(&p)
	return &p, nil
}

func (r *GormRepo) ProductExists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) BrandProducts(ctx context.Context, brandID uint) ([]models.Product, error) {
	items := []models.Product{}
	if err := fullInclude(r.DB.WithContext(ctx)).
		Where("marca_id = ?", brandID).
		Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	sortAll(items)
	return items, nil
}

// BrandProduct is scoped to both ids: a foreign product is not found.
func (r *GormRepo) BrandProduct(ctx context.Context, brandID, id uint) (*models.Product, error) {
	return loadFull(r.DB.WithContext(ctx).Where("marca_id = ?", brandID), id)
}

func loadFull(db *gorm.DB, id uint) (*models.Product, error) {
	var p models.Product
	if err := fullInclude(db).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	sortPrices(&p)
	return &p, nil
}

func (r *GormRepo) OwnsProduct(ctx context.Context, id, brandID uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND marca_id = ?", id, brandID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateProduct inserts the product with links, colors and prices in one transaction.
func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	var out *models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Brand", "Favorites").Create(p).Error; err != nil {
			return err
		}
		var err error
		out, err = loadFull(tx, p.ID)
		return err
	})
	return out, err
}

// DeleteProductDependents removes prices, then colors, links and favorites of a product.
func DeleteProductDependents(tx *gorm.DB, productID uint) error {
	var colorIDs []uint
	if err := tx.Model(&models.Color{}).Where("prodotto_id = ?", productID).Pluck("id", &colorIDs).Error; err != nil {
		return err
	}
	if len(colorIDs) > 0 {
		if err := tx.Where("colore_id IN ?", colorIDs).Delete(&models.Price{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("prodotto_id = ?", productID).Delete(&models.Color{}).Error; err != nil {
		return err
	}
	if err := tx.Where("prodotto_id = ?", productID).Delete(&models.ProductEnvironmentMaterial{}).Error; err != nil {
		return err
	}
	return tx.Where("prodotto_id = ?", productID).Delete(&models.Favorite{}).Error
}

// ReplaceProduct drops every dependent row and recreates them from p.
// Empty p.Name keeps the stored name.
func (r *GormRepo) ReplaceProduct(ctx context.Context, id uint, p *models.Product) (*models.Product, error) {
	var out *models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := DeleteProductDependents(tx, id); err != nil {
			return err
		}

		fields := map[string]any{
			"descrizione":              p.Description,
			"certificazioni":           p.Certifications,
			"resistenza":               p.Resistance,
			"base":                     p.Base,
			"numero_mani":              p.Coats,
			"temperatura_applicazione": p.ApplicationTemperature,
			"copertura_per_litro":      p.CoveragePerLiter,
			"scheda_tecnica_url":       p.DatasheetURL,
		}
		if strings.TrimSpace(p.Name) != "" {
			fields["nome"] = p.Name
		}
		res := tx.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		for i := range p.Links {
			p.Links[i].ID = 0
			p.Links[i].ProductID = id
		}
		if len(p.Links) > 0 {
			if err := tx.Omit("Environment", "Material").Create(&p.Links).Error; err != nil {
				return err
			}
		}
		for i := range p.Colors {
			p.Colors[i].ID = 0
			p.Colors[i].ProductID = id
		}
		if len(p.Colors) > 0 {
			if err := tx.Create(&p.Colors).Error; err != nil {
				return err
			}
		}

		var err error
		out, err = loadFull(tx, id)
		return err
	})
	return out, err
}

// DeleteProduct is idempotent: every step is a conditional delete.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := DeleteProductDependents(tx, id); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Product{}).Error
	})
}

// SearchProductIDs is the SQL fallback when no search index is configured.
func (r *GormRepo) SearchProductIDs(ctx context.Context, q string, offset, limit int) ([]uint, int64, error) {
	like := "%" + strings.ToLower(q) + "%"
	base := func() *gorm.DB {
		return r.DB.WithContext(ctx).
			Model(&models.Product{}).
			Scopes(r.productScope(ProductFilter{})).
			Where("LOWER(prodotti.nome) LIKE ? OR LOWER(COALESCE(prodotti.descrizione, '')) LIKE ?", like, like)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ids []uint
	if err := base().Order("prodotti.nome ASC").Offset(offset).Limit(limit).Pluck("prodotti.id", &ids).Error; err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}
