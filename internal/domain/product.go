package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductStatus string

const (
	ProductStatusActive ProductStatus = "active"
	ProductStatusDraft  ProductStatus = "draft"
)

func (s ProductStatus) Valid() bool {
	return s == ProductStatusActive || s == ProductStatusDraft
}

type Product struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	Price       float64        `db:"price" json:"price"`
	Vendor      string         `db:"vendor" json:"vendor"`
	ProductType string         `db:"product_type" json:"product_type"`
	Handle      string         `db:"handle" json:"handle"`
	Status      ProductStatus  `db:"status" json:"status"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
	Variants    []Variant      `db:"-" json:"variants"`
	Images      []Image        `db:"-" json:"images"`
}

type Variant struct {
	ID                uuid.UUID `db:"id" json:"id"`
	ProductID         uuid.UUID `db:"product_id" json:"product_id"`
	Title             string    `db:"title" json:"title"`
	SKU               string    `db:"sku" json:"sku"`
	Price             float64   `db:"price" json:"price"`
	CompareAtPrice    *float64  `db:"compare_at_price" json:"compare_at_price,omitempty"`
	InventoryQuantity int       `db:"inventory_quantity" json:"inventory_quantity"`
	Weight            *float64  `db:"weight" json:"weight,omitempty"`
	Barcode           *string   `db:"barcode" json:"barcode,omitempty"`
	RequiresShipping  bool      `db:"requires_shipping" json:"requires_shipping"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

type Image struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProductID uuid.UUID `db:"product_id" json:"product_id"`
	Src       string    `db:"src" json:"src"`
	Alt       *string   `db:"alt" json:"alt,omitempty"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
