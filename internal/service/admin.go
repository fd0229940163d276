package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/micca12/Progetto-IW/internal/apperr"
	"github.com/micca12/Progetto-IW/internal/events"
	"github.com/micca12/Progetto-IW/internal/hash"
	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/models"
	"github.com/micca12/Progetto-IW/internal/repo"
	"github.com/micca12/Progetto-IW/internal/transport"
	"github.com/micca12/Progetto-IW/internal/validate"
)

const (
	msgBrandNotFound   = "Marca non trovata"
	msgBrandNameExists = "Nome marca già esistente"
)

// AdminService manages brand accounts. Brand lists served by the catalog are
// invalidated after every change.
type AdminService struct {
	Repo    *repo.GormRepo
	Events  events.Publisher
	Catalog *CatalogService
}

func (s *AdminService) invalidate() {
	if s.Catalog != nil {
		s.Catalog.InvalidateBrands()
	}
}

func (s *AdminService) Brands(ctx context.Context) (*transport.AdminBrands, error) {
	rows, err := s.Repo.AdminBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	out := &transport.AdminBrands{Brands: make([]transport.AdminBrand, 0, len(rows))}
	for _, r := range rows {
		out.Brands = append(out.Brands, transport.AdminBrand{
			ID:           r.ID,
			Name:         r.Name,
			LogoURL:      r.LogoURL,
			Active:       r.Active,
			RegisteredAt: r.RegisteredAt,
			Count:        transport.ProductCount{Products: r.ProductCount},
			Email:        r.Email,
			UserID:       r.UserID,
		})
	}
	return out, nil
}

// CreateBrand writes the brand and its login account in one transaction.
func (s *AdminService) CreateBrand(ctx context.Context, req transport.CreateBrandRequest) (*transport.CreatedBrand, error) {
	l := logging.FromContext(ctx).With("svc", "admin.create_brand")

	if err := validate.Required(
		validate.F("Nome marca", strings.TrimSpace(req.Name)),
		validate.F("Email", req.Email),
		validate.F("Password", req.Password),
	); err != nil {
		return nil, err
	}
	if err := validate.Password(req.Password); err != nil {
		return nil, err
	}

	email := validate.NormalizeEmail(req.Email)
	if err := validate.Email(email); err != nil {
		return nil, err
	}
	taken, err := s.Repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperr.Validation(msgEmailInUse)
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.Repo.BrandNameExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check brand name: %w", err)
	}
	if exists {
		return nil, apperr.Validation(msgBrandNameExists)
	}

	role, err := s.Repo.RoleByName(ctx, models.RoleNameBrand)
	if err != nil {
		return nil, fmt.Errorf("load brand role: %w", err)
	}
	pw, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	b := models.Brand{Name: name, Active: true}
	u := models.User{
		Email:        email,
		PasswordHash: pw,
		FirstName:    name,
		LastName:     "Account",
		RoleID:       role.ID,
		Active:       true,
	}
	if err := s.Repo.CreateBrandWithUser(ctx, &b, &u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("create_brand_failed", "status", 400, "reason", "duplicate key")
			return nil, apperr.Validation("Email o nome marca già in uso")
		}
		return nil, fmt.Errorf("create brand: %w", err)
	}

	s.invalidate()
	l.Info("brand_created", "brand_id", b.ID, "user_id", u.ID)
	publish(ctx, s.Events, events.TopicBrands, strconv.FormatUint(uint64(b.ID), 10), "brand_created",
		map[string]any{"id": b.ID, "nome": b.Name, "email": u.Email})

	return &transport.CreatedBrand{
		ID:           b.ID,
		Name:         b.Name,
		Email:        u.Email,
		Active:       b.Active,
		RegisteredAt: b.RegisteredAt,
	}, nil
}

// SetActive toggles the brand and its accounts together. A deactivated brand
// disappears from public listings and its users can no longer log in.
func (s *AdminService) SetActive(ctx context.Context, id uint, active bool) (*transport.BrandStatus, error) {
	b, err := s.Repo.SetBrandActive(ctx, id, active)
	if err != nil {
		return nil, notFound(err, msgBrandNotFound, "set brand active")
	}

	s.invalidate()
	logging.FromContext(ctx).Info("brand_status_changed", "brand_id", id, "active", active)
	publish(ctx, s.Events, events.TopicBrands, strconv.FormatUint(uint64(id), 10), "brand_status_changed",
		map[string]any{"id": id, "attivo": active})

	return &transport.BrandStatus{ID: b.ID, Name: b.Name, Active: b.Active}, nil
}

func (s *AdminService) DeleteBrand(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "admin.delete_brand")

	if _, err := s.Repo.FindBrand(ctx, id); err != nil {
		return notFound(err, msgBrandNotFound, "find brand")
	}
	n, err := s.Repo.CountBrandProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("count brand products: %w", err)
	}
	if n > 0 {
		l.Warn("delete_brand_failed", "status", 400, "reason", "brand has products", "brand_id", id, "products", n)
		return apperr.Validation("Non puoi eliminare una marca con prodotti")
	}
	if err := s.Repo.DeleteBrand(ctx, id); err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}

	s.invalidate()
	l.Info("brand_deleted", "brand_id", id)
	publish(ctx, s.Events, events.TopicBrands, strconv.FormatUint(uint64(id), 10), "brand_deleted",
		map[string]any{"id": id})
	return nil
}
