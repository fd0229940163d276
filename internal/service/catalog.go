package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/micca12/Progetto-IW/internal/apperr"
	"github.com/micca12/Progetto-IW/internal/cache"
	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/models"
	"github.com/micca12/Progetto-IW/internal/repo"
	"github.com/micca12/Progetto-IW/internal/search"
	"github.com/micca12/Progetto-IW/internal/transport"
	"github.com/micca12/Progetto-IW/internal/validate"
)

const (
	TrendingLimit = 10

	cacheEnvironments = "catalogo:ambienti"
	cacheDimensions   = "catalogo:dimensioni"
	cacheMaterials    = "catalogo:materiali"
	cacheBrandsPrefix = "marche:"
	cacheActiveBrands = "marche:attive"
)

// CatalogService serves the public read side of the catalog.
type CatalogService struct {
	Repo   *repo.GormRepo
	Cache  *cache.Cache
	Search search.Index
}

func (s *CatalogService) Environments(ctx context.Context) ([]models.Environment, error) {
	return cache.Load(s.Cache, cacheEnvironments, func() ([]models.Environment, error) {
		return s.Repo.Environments(ctx)
	})
}

func (s *CatalogService) Materials(ctx context.Context, environmentID *uint) ([]models.Material, error) {
	if environmentID != nil {
		return s.Repo.Materials(ctx, environmentID)
	}
	return cache.Load(s.Cache, cacheMaterials, func() ([]models.Material, error) {
		return s.Repo.Materials(ctx, nil)
	})
}

func (s *CatalogService) Dimensions(ctx context.Context) ([]models.Dimension, error) {
	return cache.Load(s.Cache, cacheDimensions, func() ([]models.Dimension, error) {
		return s.Repo.Dimensions(ctx)
	})
}

func (s *CatalogService) ActiveBrands(ctx context.Context) ([]models.Brand, error) {
	return cache.Load(s.Cache, cacheActiveBrands, func() ([]models.Brand, error) {
		return s.Repo.ActiveBrands(ctx)
	})
}

func (s *CatalogService) BrandsForFilter(ctx context.Context, f repo.LinkFilter) ([]models.Brand, error) {
	if f.Empty() {
		return s.ActiveBrands(ctx)
	}
	return s.Repo.BrandsForFilter(ctx, f)
}

func (s *CatalogService) Brand(ctx context.Context, id uint) (*transport.BrandDetail, error) {
	b, err := s.Repo.ActiveBrandWithProducts(ctx, id)
	if err != nil {
		return nil, notFound(err, "Marca non trovata", "load brand")
	}
	out := transport.BrandDetailFrom(b)
	return &out, nil
}

func (s *CatalogService) Products(ctx context.Context, f repo.ProductFilter, page validate.Page) (*transport.ProductPage, error) {
	items, total, err := s.Repo.ProductCards(ctx, f, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &transport.ProductPage{
		Data:       transport.CardsFrom(items),
		Pagination: validate.PaginationMeta(total, page.Page, page.Limit),
	}, nil
}

func (s *CatalogService) Trending(ctx context.Context) ([]transport.TrendingProduct, error) {
	items, rows, err := s.Repo.Trending(ctx, TrendingLimit)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ProductID] = r.Favorites
	}
	out := make([]transport.TrendingProduct, 0, len(items))
	for _, p := range items {
		out = append(out, transport.TrendingProduct{Product: p, FavoritesCount: counts[p.ID]})
	}
	return out, nil
}

func (s *CatalogService) Product(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.ActiveProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "Prodotto non trovato", "load product")
	}
	return p, nil
}

// SearchProducts uses the search index when configured and falls back to SQL
// when it is absent or failing.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, page validate.Page) (*transport.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperr.Validation("Testo di ricerca obbligatorio")
	}

	var (
		ids   []uint
		total int64
		err   error
	)
	if s.Search != nil {
		ids, total, err = s.Search.Search(ctx, q, page.Skip, page.Limit)
		if err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to sql", "error", err)
		}
	}
	if s.Search == nil || err != nil {
		ids, total, err = s.Repo.SearchProductIDs(ctx, q, page.Skip, page.Limit)
		if err != nil {
			return nil, fmt.Errorf("search products: %w", err)
		}
	}

	items, err := s.Repo.ProductCardsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load search results: %w", err)
	}
	return &transport.SearchResult{
		Query:      q,
		Data:       transport.CardsFrom(items),
		Pagination: validate.PaginationMeta(total, page.Page, page.Limit),
	}, nil
}

// InvalidateBrands drops cached brand lists after an admin change.
func (s *CatalogService) InvalidateBrands() {
	if s.Cache != nil {
		s.Cache.DeletePrefix(cacheBrandsPrefix)
	}
}
