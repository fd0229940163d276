package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/micca12/Progetto-IW/internal/apperr"
	"github.com/micca12/Progetto-IW/internal/events"
	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/models"
	"github.com/micca12/Progetto-IW/internal/repo"
	"github.com/micca12/Progetto-IW/internal/search"
	"github.com/micca12/Progetto-IW/internal/transport"
	"github.com/micca12/Progetto-IW/internal/validate"
)

const msgProductNotFound = "Prodotto non trovato"

// ProductService is the brand side of the catalog. Every operation is
// scoped to the caller's brand; a foreign product is reported as missing.
type ProductService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Search search.Index
}

func (s *ProductService) VerifyOwnership(ctx context.Context, productID, brandID uint) (bool, error) {
	return s.Repo.OwnsProduct(ctx, productID, brandID)
}

func (s *ProductService) List(ctx context.Context, brandID uint) ([]models.Product, error) {
	items, err := s.Repo.BrandProducts(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("list brand products: %w", err)
	}
	return items, nil
}

func (s *ProductService) Get(ctx context.Context, brandID, id uint) (*models.Product, error) {
	p, err := s.Repo.BrandProduct(ctx, brandID, id)
	if err != nil {
		return nil, notFound(err, msgProductNotFound, "load brand product")
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, brandID uint, in transport.ProductInput) (*models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("Nome prodotto obbligatorio")
	}
	p, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	p.BrandID = brandID

	created, err := s.Repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	logging.FromContext(ctx).Info("product_created", "product_id", created.ID, "brand_id", brandID)
	s.afterWrite(ctx, "product_created", created)
	return created, nil
}

// Update is a full replace: links, colors and prices not in the payload are
// gone afterwards and favorites on the product are dropped.
func (s *ProductService) Update(ctx context.Context, brandID, id uint, in transport.ProductInput) (*models.Product, error) {
	owns, err := s.VerifyOwnership(ctx, id, brandID)
	if err != nil {
		return nil, fmt.Errorf("verify ownership: %w", err)
	}
	if !owns {
		return nil, apperr.NotFound(msgProductNotFound)
	}

	p, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	updated, err := s.Repo.ReplaceProduct(ctx, id, p)
	if err != nil {
		return nil, notFound(err, msgProductNotFound, "replace product")
	}

	logging.FromContext(ctx).Info("product_updated", "product_id", id, "brand_id", brandID)
	s.afterWrite(ctx, "product_updated", updated)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, brandID, id uint) error {
	owns, err := s.VerifyOwnership(ctx, id, brandID)
	if err != nil {
		return fmt.Errorf("verify ownership: %w", err)
	}
	if !owns {
		return apperr.NotFound(msgProductNotFound)
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	l := logging.FromContext(ctx)
	l.Info("product_deleted", "product_id", id, "brand_id", brandID)
	publish(ctx, s.Events, events.TopicProducts, strconv.FormatUint(uint64(id), 10), "product_deleted",
		map[string]any{"id": id, "marca_id": brandID})
	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			l.Warn("search_unindex_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *ProductService) afterWrite(ctx context.Context, eventType string, p *models.Product) {
	publish(ctx, s.Events, events.TopicProducts, strconv.FormatUint(uint64(p.ID), 10), eventType,
		map[string]any{"id": p.ID, "marca_id": p.BrandID, "nome": p.Name})
	if s.Search != nil {
		if err := s.Search.IndexProduct(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
		}
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// buildProduct normalizes the payload: blank strings become NULL, zero coats
// and coverage become NULL, hex codes are stored uppercase.
func buildProduct(in transport.ProductInput) (*models.Product, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:                   strings.TrimSpace(in.Name),
		Description:            trimmed(in.Description),
		Certifications:         trimmed(in.Certifications),
		Resistance:             trimmed(in.Resistance),
		Base:                   trimmed(in.Base),
		ApplicationTemperature: trimmed(in.ApplicationTemperature),
		DatasheetURL:           trimmed(in.DatasheetURL),
		Links:                  []models.ProductEnvironmentMaterial{},
		Colors:                 []models.Color{},
	}
	if in.Coats != nil && *in.Coats != 0 {
		if *in.Coats < 0 {
			return nil, apperr.Validation("numero_mani non valido")
		}
		coats := *in.Coats
		p.Coats = &coats
	}
	if in.CoveragePerLiter.Valid && !in.CoveragePerLiter.Decimal.IsZero() {
		if in.CoveragePerLiter.Decimal.IsNegative() {
			return nil, apperr.Validation("copertura_per_litro non valido")
		}
		p.CoveragePerLiter = in.CoveragePerLiter
	}

	for _, l := range in.Links {
		p.Links = append(p.Links, models.ProductEnvironmentMaterial{
			EnvironmentID: l.EnvironmentID,
			MaterialID:    l.MaterialID,
		})
	}
	for _, c := range in.Colors {
		col := models.Color{
			Name:    strings.TrimSpace(c.Name),
			HexCode: strings.ToUpper(strings.TrimSpace(c.HexCode)),
			Prices:  []models.Price{},
		}
		for _, pr := range c.Prices {
			if pr.Amount.IsNegative() {
				return nil, apperr.Validation("prezzo non valido")
			}
			col.Prices = append(col.Prices, models.Price{DimensionID: pr.DimensionID, Amount: pr.Amount})
		}
		p.Colors = append(p.Colors, col)
	}
	return p, nil
}
