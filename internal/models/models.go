package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleNameAdmin = "admin"
	RoleNameUser  = "user"
	RoleNameBrand = "marca"
)

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name string `gorm:"column:nome;size:20;uniqueIndex;not null" json:"nome"`
}

func (Role) TableName() string { return "ruoli" }

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"                 json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null"            json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null"            json:"-"`
	FirstName    string     `gorm:"column:nome;size:100;not null"            json:"nome"`
	LastName     string     `gorm:"column:cognome;size:100;not null"         json:"cognome"`
	RoleID       uint       `gorm:"column:ruolo_id;not null;index"           json:"ruolo_id"`
	Role         Role       `gorm:"foreignKey:RoleID"                        json:"ruoli"`
	BrandID      *uint      `gorm:"column:marca_id;uniqueIndex"              json:"marca_id"`
	Brand        *Brand     `gorm:"foreignKey:BrandID"                       json:"marche,omitempty"`
	Active       bool       `gorm:"column:attivo;not null"                   json:"attivo"`
	LastLogin    *time.Time `gorm:"column:ultimo_accesso"                    json:"ultimo_accesso"`
	RegisteredAt time.Time  `gorm:"column:data_registrazione;autoCreateTime" json:"data_registrazione"`
}

func (User) TableName() string { return "utenti" }

type Brand struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"                 json:"id"`
	Name         string    `gorm:"column:nome;size:150;uniqueIndex;not null" json:"nome"`
	LogoURL      *string   `gorm:"column:logo_url"                          json:"logo_url"`
	Active       bool      `gorm:"column:attivo;not null"                   json:"attivo"`
	RegisteredAt time.Time `gorm:"column:data_registrazione;autoCreateTime" json:"data_registrazione"`
	Products     []Product `gorm:"foreignKey:BrandID"                       json:"prodotti,omitempty"`
	Users        []User    `gorm:"foreignKey:BrandID"                       json:"-"`
}

func (Brand) TableName() string { return "marche" }

type Product struct {
	ID                     uint                `gorm:"primaryKey;autoIncrement"                 json:"id"`
	BrandID                uint                `gorm:"column:marca_id;not null;index"           json:"marca_id"`
	Brand                  *Brand              `gorm:"foreignKey:BrandID"                       json:"marche,omitempty"`
	Name                   string              `gorm:"column:nome;size:200;not null;index"      json:"nome"`
	Description            *string             `gorm:"column:descrizione;type:text"             json:"descrizione"`
	Certifications         *string             `gorm:"column:certificazioni"                    json:"certificazioni"`
	Resistance             *string             `gorm:"column:resistenza"                        json:"resistenza"`
	Base                   *string             `gorm:"column:base"                              json:"base"`
	Coats                  *int                `gorm:"column:numero_mani"                       json:"numero_mani"`
	ApplicationTemperature *string             `gorm:"column:temperatura_applicazione"          json:"temperatura_applicazione"`
	CoveragePerLiter       decimal.NullDecimal `gorm:"column:copertura_per_litro;type:decimal(10,2)" json:"copertura_per_litro"`
	DatasheetURL           *string             `gorm:"column:scheda_tecnica_url"                json:"scheda_tecnica_url"`

	Colors    []Color                      `gorm:"foreignKey:ProductID" json:"colori"`
	Links     []ProductEnvironmentMaterial `gorm:"foreignKey:ProductID" json:"prodotti_ambienti_materiali"`
	Favorites []Favorite                   `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string { return "prodotti" }

type Color struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"        json:"id"`
	ProductID uint    `gorm:"column:prodotto_id;not null;index" json:"prodotto_id"`
	Name      string  `gorm:"column:nome;size:100;not null"   json:"nome"`
	HexCode   string  `gorm:"column:codice_hex;size:9;not null" json:"codice_hex"`
	Prices    []Price `gorm:"foreignKey:ColorID"              json:"prezzi"`
}

func (Color) TableName() string { return "colori" }

type Price struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"           json:"id"`
	ColorID     uint            `gorm:"column:colore_id;not null;index"    json:"colore_id"`
	DimensionID uint            `gorm:"column:dimensione_id;not null"      json:"dimensione_id"`
	Dimension   *Dimension      `gorm:"foreignKey:DimensionID"             json:"dimensioni,omitempty"`
	Amount      decimal.Decimal `gorm:"column:prezzo;type:decimal(10,2);not null" json:"prezzo"`
}

func (Price) TableName() string { return "prezzi" }

type Dimension struct {
	ID     uint            `gorm:"primaryKey;autoIncrement"                 json:"id"`
	Liters decimal.Decimal `gorm:"column:litri;type:decimal(6,3);not null"  json:"litri"`
}

func (Dimension) TableName() string { return "dimensioni" }

type Environment struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"                json:"id"`
	Name string `gorm:"column:nome;size:100;uniqueIndex;not null" json:"nome"`
}

func (Environment) TableName() string { return "ambienti" }

type Material struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"                json:"id"`
	Name string `gorm:"column:nome;size:100;uniqueIndex;not null" json:"nome"`
}

func (Material) TableName() string { return "materiali" }

type ProductEnvironmentMaterial struct {
	ID            uint         `gorm:"primaryKey;autoIncrement"           json:"id"`
	ProductID     uint         `gorm:"column:prodotto_id;not null;index"  json:"prodotto_id"`
	EnvironmentID uint         `gorm:"column:ambiente_id;not null;index"  json:"ambiente_id"`
	Environment   *Environment `gorm:"foreignKey:EnvironmentID"           json:"ambienti,omitempty"`
	MaterialID    uint         `gorm:"column:materiale_id;not null;index" json:"materiale_id"`
	Material      *Material    `gorm:"foreignKey:MaterialID"              json:"materiali,omitempty"`
}

func (ProductEnvironmentMaterial) TableName() string { return "prodotti_ambienti_materiali" }

type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                                      json:"id"`
	UserID    uint      `gorm:"column:utente_id;not null;uniqueIndex:idx_preferiti_utente_prodotto"   json:"utente_id"`
	ProductID uint      `gorm:"column:prodotto_id;not null;uniqueIndex:idx_preferiti_utente_prodotto" json:"prodotto_id"`
	Product   *Product  `gorm:"foreignKey:ProductID"                                          json:"prodotti,omitempty"`
	AddedAt   time.Time `gorm:"column:data_aggiunta;autoCreateTime"                           json:"data_aggiunta"`
}

func (Favorite) TableName() string { return "preferiti" }

// All lists the tables in dependency order for migrations.
func All() []any {
	return []any{
		&Role{}, &Brand{}, &User{},
		&Dimension{}, &Environment{}, &Material{},
		&Product{}, &Color{}, &Price{},
		&ProductEnvironmentMaterial{}, &Favorite{},
	}
}
