package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rksharma7071/TrueStyle-API/internal/domain"
	"github.com/rksharma7071/TrueStyle-API/internal/media"
	"github.com/rksharma7071/TrueStyle-API/internal/repository/ports"
	"github.com/rksharma7071/TrueStyle-API/internal/util"
)

type ProductService struct {
	products  ports.ProductRepository
	storage   ports.ObjectStorage
	validator *media.Validator
	bucket    string

	now func() time.Time
}

func NewProductService(products ports.ProductRepository, storage ports.ObjectStorage, validator *media.Validator, bucket string) *ProductService {
	return &ProductService{
		products:  products,
		storage:   storage,
		validator: validator,
		bucket:    bucket,
		now:       time.Now,
	}
}

type VariantInput struct {
	Title             string   `json:"title"`
	SKU               string   `json:"sku"`
	Price             *float64 `json:"price"`
	CompareAtPrice    *float64 `json:"compare_at_price"`
	InventoryQuantity *int     `json:"inventory_quantity"`
	Weight            *float64 `json:"weight"`
	Barcode           *string  `json:"barcode"`
	RequiresShipping  *bool    `json:"requires_shipping"`
}

type ImageUpload struct {
	Reader   io.Reader
	Size     int64
	FileName string
}

type CreateProductInput struct {
	Title       string
	Description *string
	Price       float64
	Vendor      string
	ProductType string
	Status      string
	Tags        []string
	Variants    []VariantInput
	Images      []ImageUpload
}

func (s *ProductService) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.products.List(ctx, limit, offset)
}

// Get resolves a product by UUID or by its handle.
func (s *ProductService) Get(ctx context.Context, idOrHandle string) (*domain.Product, error) {
	var (
		product *domain.Product
		err     error
	)
	if id, parseErr := uuid.Parse(idOrHandle); parseErr == nil {
		product, err = s.products.FindByID(ctx, id)
	} else {
		product, err = s.products.FindByHandle(ctx, idOrHandle)
	}
	if err != nil {
		if isNoRows(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.Price <= 0 || strings.TrimSpace(input.Vendor) == "" ||
		strings.TrimSpace(input.ProductType) == "" || strings.TrimSpace(input.Status) == "" {
		return nil, fmt.Errorf("%w: title, price, vendor, product_type, and status are required", ErrProductInvalid)
	}
	status := domain.ProductStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be active or draft", ErrProductInvalid)
	}

	handle := util.Slugify(title)
	if handle == "" {
		return nil, fmt.Errorf("%w: title must contain letters or digits", ErrProductInvalid)
	}

	if _, err := s.products.FindByTitleOrHandle(ctx, title, handle); err == nil {
		return nil, ErrProductExists
	} else if !isNoRows(err) {
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	params := ports.CreateProductParams{
		Title:       title,
		Description: input.Description,
		Price:       input.Price,
		Vendor:      strings.TrimSpace(input.Vendor),
		ProductType: strings.TrimSpace(input.ProductType),
		Handle:      handle,
		Status:      status,
		Tags:        normalizeTags(input.Tags),
	}

	for _, v := range input.Variants {
		variant := ports.CreateVariantParams{
			Title:            strings.TrimSpace(v.Title),
			SKU:              strings.TrimSpace(v.SKU),
			Price:            input.Price,
			CompareAtPrice:   v.CompareAtPrice,
			Weight:           v.Weight,
			Barcode:          v.Barcode,
			RequiresShipping: true,
		}
		if variant.Title == "" {
			return nil, fmt.Errorf("%w: variant title is required", ErrProductInvalid)
		}
		if variant.SKU == "" {
			variant.SKU = fmt.Sprintf("%s-%d", handle, s.now().UnixMilli())
		}
		if v.Price != nil {
			variant.Price = *v.Price
		}
		if v.InventoryQuantity != nil {
			variant.InventoryQuantity = *v.InventoryQuantity
		}
		if v.RequiresShipping != nil {
			variant.RequiresShipping = *v.RequiresShipping
		}
		params.Variants = append(params.Variants, variant)
	}

	for i, upload := range input.Images {
		src, err := s.uploadImage(ctx, handle, upload)
		if err != nil {
			return nil, err
		}
		alt := title
		params.Images = append(params.Images, ports.CreateImageParams{
			Src:      src,
			Alt:      &alt,
			Position: i + 1,
		})
	}

	product, err := s.products.Create(ctx, params)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProductExists
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

type UpdateProductInput struct {
	Title       *string
	Description *string
	Price       *float64
	Vendor      *string
	ProductType *string
	Status      *string
	Tags        []string
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	params := ports.UpdateProductParams{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Vendor:      input.Vendor,
		ProductType: input.ProductType,
	}
	if input.Status != nil {
		status := domain.ProductStatus(strings.ToLower(strings.TrimSpace(*input.Status)))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: status must be active or draft", ErrProductInvalid)
		}
		params.Status = &status
	}
	if input.Tags != nil {
		params.Tags = normalizeTags(input.Tags)
	}

	product, err := s.products.Update(ctx, id, params)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrProductNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrProductExists
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if isNoRows(err) {
			return ErrProductNotFound
		}
		return err
	}
	return s.products.Delete(ctx, id)
}

func (s *ProductService) uploadImage(ctx context.Context, handle string, upload ImageUpload) (string, error) {
	if s.storage == nil || s.validator == nil {
		return "", fmt.Errorf("%w: image storage not configured", ErrImageInvalid)
	}
	checked, err := s.validator.Check(upload.Reader, upload.Size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageInvalid, err)
	}
	ext := strings.ToLower(path.Ext(upload.FileName))
	if ext == "" {
		ext = "." + strings.TrimPrefix(checked.ContentType, "image/")
	}
	objectName := fmt.Sprintf("products/%s/%s%s", handle, uuid.NewString(), ext)
	src, err := s.storage.Upload(ctx, s.bucket, objectName, checked.ContentType, bytes.NewReader(checked.Bytes), int64(len(checked.Bytes)))
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return src, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
