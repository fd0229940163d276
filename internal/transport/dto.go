package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/micca12/Progetto-IW/internal/models"
	"github.com/micca12/Progetto-IW/internal/validate"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
	Email     string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type User struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
	Role      string `json:"ruolo"`
	BrandID   *uint  `json:"marca_id,omitempty"`
	BrandName string `json:"marca_nome,omitempty"`
}

func UserFrom(u *models.User) User {
	out := User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.Name,
	}
	if u.BrandID != nil && *u.BrandID != 0 {
		id := *u.BrandID
		out.BrandID = &id
	}
	if u.Brand != nil {
		out.BrandName = u.Brand.Name
	}
	return out
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Message struct {
	Message string `json:"message"`
}

type PriceInput struct {
	DimensionID uint            `json:"dimensione_id" validate:"required"`
	Amount      decimal.Decimal `json:"prezzo"`
}

type ColorInput struct {
	Name    string       `json:"nome"       validate:"required"`
	HexCode string       `json:"codice_hex" validate:"required,hexcolor"`
	Prices  []PriceInput `json:"prezzi"     validate:"dive"`
}

type LinkInput struct {
	EnvironmentID uint `json:"ambiente_id"  validate:"required"`
	MaterialID    uint `json:"materiale_id" validate:"required"`
}

// ProductInput is the full replacement payload for create and update.
type ProductInput struct {
	Name                   string              `json:"nome"`
	Description            *string             `json:"descrizione"`
	Certifications         *string             `json:"certificazioni"`
	Resistance             *string             `json:"resistenza"`
	Base                   *string             `json:"base"`
	Coats                  *int                `json:"numero_mani"`
	ApplicationTemperature *string             `json:"temperatura_applicazione"`
	CoveragePerLiter       decimal.NullDecimal `json:"copertura_per_litro"`
	DatasheetURL           *string             `json:"scheda_tecnica_url"`
	Links                  []LinkInput         `json:"ambienti_materiali" validate:"dive"`
	Colors                 []ColorInput        `json:"colori"             validate:"dive"`
}

type AddFavoriteRequest struct {
	ProductID any `json:"prodotto_id"`
}

type CreateBrandRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SetBrandActiveRequest struct {
	Active bool `json:"attivo"`
}

type CardBrand struct {
	ID   uint   `json:"id"`
	Name string `json:"nome"`
}

type CardColor struct {
	HexCode string `json:"codice_hex"`
}

// ProductCard is the light projection used by listings.
type ProductCard struct {
	ID      uint        `json:"id"`
	BrandID uint        `json:"marca_id"`
	Name    string      `json:"nome"`
	Brand   *CardBrand  `json:"marche"`
	Colors  []CardColor `json:"colori"`
}

func CardFrom(p *models.Product) ProductCard {
	c := ProductCard{ID: p.ID, BrandID: p.BrandID, Name: p.Name, Colors: []CardColor{}}
	if p.Brand != nil {
		c.Brand = &CardBrand{ID: p.Brand.ID, Name: p.Brand.Name}
	}
	for _, col := range p.Colors {
		c.Colors = append(c.Colors, CardColor{HexCode: col.HexCode})
	}
	return c
}

func CardsFrom(items []models.Product) []ProductCard {
	out := make([]ProductCard, 0, len(items))
	for i := range items {
		out = append(out, CardFrom(&items[i]))
	}
	return out
}

type ProductPage struct {
	Data       []ProductCard     `json:"data"`
	Pagination validate.PageMeta `json:"pagination"`
}

type TrendingProduct struct {
	models.Product
	FavoritesCount int64 `json:"preferiti_count"`
}

type SummaryBrand struct {
	ID      uint    `json:"id"`
	Name    string  `json:"nome"`
	LogoURL *string `json:"logo_url"`
}

type SummaryColor struct {
	ID      uint   `json:"id"`
	HexCode string `json:"codice_hex"`
}

// ProductSummary is a product row with brand and color swatches, no prices.
type ProductSummary struct {
	ID                     uint                `json:"id"`
	BrandID                uint                `json:"marca_id"`
	Name                   string              `json:"nome"`
	Description            *string             `json:"descrizione"`
	Certifications         *string             `json:"certificazioni"`
	Resistance             *string             `json:"resistenza"`
	Base                   *string             `json:"base"`
	Coats                  *int                `json:"numero_mani"`
	ApplicationTemperature *string             `json:"temperatura_applicazione"`
	CoveragePerLiter       decimal.NullDecimal `json:"copertura_per_litro"`
	DatasheetURL           *string             `json:"scheda_tecnica_url"`
	Brand                  *SummaryBrand       `json:"marche"`
	Colors                 []SummaryColor      `json:"colori"`
}

type BrandDetail struct {
	ID           uint             `json:"id"`
	Name         string           `json:"nome"`
	LogoURL      *string          `json:"logo_url"`
	Active       bool             `json:"attivo"`
	RegisteredAt time.Time        `json:"data_registrazione"`
	Products     []ProductSummary `json:"prodotti"`
}

func BrandDetailFrom(b *models.Brand) BrandDetail {
	out := BrandDetail{
		ID: b.ID, Name: b.Name, LogoURL: b.LogoURL, Active: b.Active,
		RegisteredAt: b.RegisteredAt, Products: make([]ProductSummary, 0, len(b.Products)),
	}
	for _, p := range b.Products {
		s := ProductSummary{
			ID: p.ID, BrandID: p.BrandID, Name: p.Name, Description: p.Description,
			Certifications: p.Certifications, Resistance: p.Resistance, Base: p.Base,
			Coats: p.Coats, ApplicationTemperature: p.ApplicationTemperature,
			CoveragePerLiter: p.CoveragePerLiter, DatasheetURL: p.DatasheetURL,
			Colors: make([]SummaryColor, 0, len(p.Colors)),
		}
		if p.Brand != nil {
			s.Brand = &SummaryBrand{ID: p.Brand.ID, Name: p.Brand.Name, LogoURL: p.Brand.LogoURL}
		}
		for _, c := range p.Colors {
			s.Colors = append(s.Colors, SummaryColor{ID: c.ID, HexCode: c.HexCode})
		}
		out.Products = append(out.Products, s)
	}
	return out
}

type BrandProducts struct {
	Products []models.Product `json:"prodotti"`
}

type ProductCount struct {
	Products int64 `json:"prodotti"`
}

type AdminBrand struct {
	ID           uint         `json:"id"`
	Name         string       `json:"nome"`
	LogoURL      *string      `json:"logo_url"`
	Active       bool         `json:"attivo"`
	RegisteredAt time.Time    `json:"data_registrazione"`
	Count        ProductCount `json:"_count"`
	Email        *string      `json:"email"`
	UserID       *uint        `json:"utente_id"`
}

type AdminBrands struct {
	Brands []AdminBrand `json:"marche"`
}

type CreatedBrand struct {
	ID           uint      `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	Active       bool      `json:"attivo"`
	RegisteredAt time.Time `json:"data_registrazione"`
}

type BrandStatus struct {
	ID     uint   `json:"id"`
	Name   string `json:"nome"`
	Active bool   `json:"attivo"`
}

type SearchResult struct {
	Query      string            `json:"q"`
	Data       []ProductCard     `json:"data"`
	Pagination validate.PageMeta `json:"pagination"`
}
