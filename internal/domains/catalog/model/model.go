package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is a taxonomy node. Slug is the natural key.
type Category struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Slug      string     `json:"slug" db:"slug"`
	NameTR    string     `json:"name_tr" db:"name_tr"`
	NameEN    *string    `json:"name_en,omitempty" db:"name_en"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	SortOrder int        `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// Brand is an equipment manufacturer. Slug is the natural key.
type Brand struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	NameTR    string    `json:"name_tr" db:"name_tr"`
	NameEN    *string   `json:"name_en,omitempty" db:"name_en"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Series groups products of a brand (e.g. "700 Series" cooking line).
type Series struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	NameTR    string    `json:"name_tr" db:"name_tr"`
	NameEN    *string   `json:"name_en,omitempty" db:"name_en"`
	BrandID   uuid.UUID `json:"brand_id" db:"brand_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product is a catalog entry. Slug is the natural key; concrete purchasable
// configurations live on Variant.
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Slug          string    `json:"slug" db:"slug"`
	NameTR        string    `json:"name_tr" db:"name_tr"`
	NameEN        *string   `json:"name_en,omitempty" db:"name_en"`
	DescriptionTR *string   `json:"description_tr,omitempty" db:"description_tr"`
	SeriesID      uuid.UUID `json:"series_id" db:"series_id"`
	BrandID       uuid.UUID `json:"brand_id" db:"brand_id"`
	CategoryID    uuid.UUID `json:"category_id" db:"category_id"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Variant is a concrete model of a product. ModelCode is the natural key.
type Variant struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	ModelCode  string           `json:"model_code" db:"model_code"`
	ProductID  uuid.UUID        `json:"product_id" db:"product_id"`
	NameTR     string           `json:"name_tr" db:"name_tr"`
	NameEN     *string          `json:"name_en,omitempty" db:"name_en"`
	Dimensions string           `json:"dimensions" db:"dimensions"`
	ListPrice  decimal.Decimal  `json:"list_price" db:"list_price"`
	WeightKG   decimal.Decimal  `json:"weight_kg" db:"weight_kg"`
	PowerKW    *decimal.Decimal `json:"power_kw,omitempty" db:"power_kw"`
	Voltage    *string          `json:"voltage,omitempty" db:"voltage"`
	Capacity   *string          `json:"capacity,omitempty" db:"capacity"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}
