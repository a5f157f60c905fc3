package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/rksharma7071/TrueStyle-API/internal/domain"
)

type CreateVariantParams struct {
	Title             string
	SKU               string
	Price             float64
	CompareAtPrice    *float64
	InventoryQuantity int
	Weight            *float64
	Barcode           *string
	RequiresShipping  bool
}

type CreateImageParams struct {
	Src      string
	Alt      *string
	Position int
}

type CreateProductParams struct {
	Title       string
	Description *string
	Price       float64
	Vendor      string
	ProductType string
	Handle      string
	Status      domain.ProductStatus
	Tags        []string
	Variants    []CreateVariantParams
	Images      []CreateImageParams
}

type UpdateProductParams struct {
	Title       *string
	Description *string
	Price       *float64
	Vendor      *string
	ProductType *string
	Status      *domain.ProductStatus
	Tags        []string
}

type ProductRepository interface {
	Create(ctx context.Context, params CreateProductParams) (*domain.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByHandle(ctx context.Context, handle string) (*domain.Product, error)
	FindByTitleOrHandle(ctx context.Context, title, handle string) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
