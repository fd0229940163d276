package client

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleBrand = "marca"
)

type User struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
	Role      string `json:"ruolo"`
	BrandID   *uint  `json:"marca_id,omitempty"`
	BrandName string `json:"marca_nome,omitempty"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type RegisterData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
}

type Profile struct {
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
	Email     string `json:"email"`
}

type Brand struct {
	ID      uint    `json:"id"`
	Name    string  `json:"nome"`
	LogoURL *string `json:"logo_url,omitempty"`
	Active  bool    `json:"attivo"`
}

type Environment struct {
	ID   uint   `json:"id"`
	Name string `json:"nome"`
}

type Material struct {
	ID   uint   `json:"id"`
	Name string `json:"nome"`
}

type Dimension struct {
	ID     uint            `json:"id"`
	Liters decimal.Decimal `json:"litri"`
}

type Price struct {
	ID          uint            `json:"id"`
	DimensionID uint            `json:"dimensione_id"`
	Amount      decimal.Decimal `json:"prezzo"`
	Dimension   *Dimension      `json:"dimensioni,omitempty"`
}

type Color struct {
	ID      uint    `json:"id"`
	Name    string  `json:"nome"`
	HexCode string  `json:"codice_hex"`
	Prices  []Price `json:"prezzi,omitempty"`
}

type Link struct {
	ID            uint         `json:"id"`
	EnvironmentID uint         `json:"ambiente_id"`
	MaterialID    uint         `json:"materiale_id"`
	Environment   *Environment `json:"ambienti,omitempty"`
	Material      *Material    `json:"materiali,omitempty"`
}

// Product covers both the light listing projection and the full detail.
type Product struct {
	ID                     uint                `json:"id"`
	BrandID                uint                `json:"marca_id"`
	Name                   string              `json:"nome"`
	Description            *string             `json:"descrizione,omitempty"`
	Certifications         *string             `json:"certificazioni,omitempty"`
	Resistance             *string             `json:"resistenza,omitempty"`
	Base                   *string             `json:"base,omitempty"`
	Coats                  *int                `json:"numero_mani,omitempty"`
	ApplicationTemperature *string             `json:"temperatura_applicazione,omitempty"`
	CoveragePerLiter       decimal.NullDecimal `json:"copertura_per_litro"`
	DatasheetURL           *string             `json:"scheda_tecnica_url,omitempty"`
	Brand                  *Brand              `json:"marche,omitempty"`
	Colors                 []Color             `json:"colori"`
	Links                  []Link              `json:"prodotti_ambienti_materiali,omitempty"`
}

type TrendingProduct struct {
	Product
	FavoritesCount int64 `json:"preferiti_count"`
}

type Favorite struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"utente_id"`
	ProductID uint      `json:"prodotto_id"`
	AddedAt   time.Time `json:"data_aggiunta"`
	Product   *Product  `json:"prodotti,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type ProductPage struct {
	Data       []Product  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type SearchPage struct {
	Query      string     `json:"q"`
	Data       []Product  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Filters selects catalog products by display name, not id.
type Filters struct {
	Environment string
	Material    string
	Brand       string
}
