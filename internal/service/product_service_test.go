package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rksharma7071/TrueStyle-API/internal/domain"
	"github.com/rksharma7071/TrueStyle-API/internal/media"
	"github.com/rksharma7071/TrueStyle-API/internal/repository/ports"
)

type memoryProductRepo struct {
	products map[uuid.UUID]*domain.Product
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *memoryProductRepo) Create(ctx context.Context, params ports.CreateProductParams) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Title:       params.Title,
		Description: params.Description,
		Price:       params.Price,
		Vendor:      params.Vendor,
		ProductType: params.ProductType,
		Handle:      params.Handle,
		Status:      params.Status,
		Tags:        pq.StringArray(params.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, v := range params.Variants {
		product.Variants = append(product.Variants, domain.Variant{
			ID:                uuid.New(),
			ProductID:         product.ID,
			Title:             v.Title,
			SKU:               v.SKU,
			Price:             v.Price,
			CompareAtPrice:    v.CompareAtPrice,
			InventoryQuantity: v.InventoryQuantity,
			Weight:            v.Weight,
			Barcode:           v.Barcode,
			RequiresShipping:  v.RequiresShipping,
		})
	}
	for _, img := range params.Images {
		product.Images = append(product.Images, domain.Image{
			ID:        uuid.New(),
			ProductID: product.ID,
			Src:       img.Src,
			Alt:       img.Alt,
			Position:  img.Position,
		})
	}
	m.products[product.ID] = product
	clone := *product
	return &clone, nil
}

func (m *memoryProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *product
	return &clone, nil
}

func (m *memoryProductRepo) FindByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	for _, product := range m.products {
		if product.Handle == handle {
			clone := *product
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryProductRepo) FindByTitleOrHandle(ctx context.Context, title, handle string) (*domain.Product, error) {
	for _, product := range m.products {
		if product.Title == title || product.Handle == handle {
			clone := *product
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryProductRepo) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(m.products))
	for _, product := range m.products {
		out = append(out, *product)
	}
	return out, nil
}

func (m *memoryProductRepo) Update(ctx context.Context, id uuid.UUID, params ports.UpdateProductParams) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if params.Title != nil {
		product.Title = *params.Title
	}
	if params.Price != nil {
		product.Price = *params.Price
	}
	if params.Status != nil {
		product.Status = *params.Status
	}
	if params.Tags != nil {
		product.Tags = pq.StringArray(params.Tags)
	}
	clone := *product
	return &clone, nil
}

func (m *memoryProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.products, id)
	return nil
}

func newProductServiceForTests(repo *memoryProductRepo, storage ports.ObjectStorage) *ProductService {
	validator := media.NewValidator(1<<20, media.DefaultMaxDimension)
	return NewProductService(repo, storage, validator, "truestyle-products")
}

func validCreateInput() CreateProductInput {
	return CreateProductInput{
		Title:       "Canvas High Top",
		Price:       59.99,
		Vendor:      "TrueStyle",
		ProductType: "Shoes",
		Status:      "active",
		Tags:        []string{"shoes", " canvas "},
	}
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("success derives a handle and normalizes tags", func(t *testing.T) {
		repo := newMemoryProductRepo()
		svc := newProductServiceForTests(repo, nil)

		product, err := svc.Create(ctx, validCreateInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if product.Handle != "canvas-high-top" {
			t.Fatalf("expected handle canvas-high-top, got %q", product.Handle)
		}
		if len(product.Tags) != 2 || product.Tags[1] != "canvas" {
			t.Fatalf("expected trimmed tags, got %v", product.Tags)
		}
		if product.Status != domain.ProductStatusActive {
			t.Fatalf("expected active status, got %q", product.Status)
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		svc := newProductServiceForTests(newMemoryProductRepo(), nil)
		input := validCreateInput()
		input.Vendor = " "

		_, err := svc.Create(ctx, input)
		if !errors.Is(err, ErrProductInvalid) {
			t.Fatalf("expected ErrProductInvalid, got %v", err)
		}
		if !strings.Contains(err.Error(), "title, price, vendor, product_type, and status are required") {
			t.Fatalf("unexpected message: %v", err)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := newProductServiceForTests(newMemoryProductRepo(), nil)
		input := validCreateInput()
		input.Status = "archived"

		if _, err := svc.Create(ctx, input); !errors.Is(err, ErrProductInvalid) {
			t.Fatalf("expected ErrProductInvalid, got %v", err)
		}
	})

	t.Run("duplicate title or handle", func(t *testing.T) {
		repo := newMemoryProductRepo()
		svc := newProductServiceForTests(repo, nil)
		if _, err := svc.Create(ctx, validCreateInput()); err != nil {
			t.Fatalf("first create: %v", err)
		}

		input := validCreateInput()
		input.Title = "Canvas High Top" // same handle
		if _, err := svc.Create(ctx, input); !errors.Is(err, ErrProductExists) {
			t.Fatalf("expected ErrProductExists, got %v", err)
		}
	})

	t.Run("variant defaults", func(t *testing.T) {
		repo := newMemoryProductRepo()
		svc := newProductServiceForTests(repo, nil)
		fixed := time.UnixMilli(1700000000000)
		svc.now = func() time.Time { return fixed }

		input := validCreateInput()
		input.Variants = []VariantInput{
			{Title: "Size 42"},
			{Title: "Size 43", SKU: "CHT-43", Price: floatPtr(64.99)},
		}

		product, err := svc.Create(ctx, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(product.Variants) != 2 {
			t.Fatalf("expected two variants, got %d", len(product.Variants))
		}

		first := product.Variants[0]
		if first.SKU != "canvas-high-top-1700000000000" {
			t.Fatalf("expected generated sku from handle and timestamp, got %q", first.SKU)
		}
		if first.Price != input.Price {
			t.Fatalf("variant without price inherits the product price, got %v", first.Price)
		}
		if !first.RequiresShipping {
			t.Fatal("requires_shipping defaults to true")
		}

		second := product.Variants[1]
		if second.SKU != "CHT-43" || second.Price != 64.99 {
			t.Fatalf("explicit variant fields must be kept, got %+v", second)
		}
	})

	t.Run("variant without title", func(t *testing.T) {
		svc := newProductServiceForTests(newMemoryProductRepo(), nil)
		input := validCreateInput()
		input.Variants = []VariantInput{{SKU: "X-1"}}

		if _, err := svc.Create(ctx, input); !errors.Is(err, ErrProductInvalid) {
			t.Fatalf("expected ErrProductInvalid, got %v", err)
		}
	})

	t.Run("uploads validated images and records their urls", func(t *testing.T) {
		repo := newMemoryProductRepo()
		storage := &stubStorage{}
		svc := newProductServiceForTests(repo, storage)

		input := validCreateInput()
		data := encodePNG(t, 4, 4)
		input.Images = []ImageUpload{{Reader: bytes.NewReader(data), Size: int64(len(data)), FileName: "front.png"}}

		product, err := svc.Create(ctx, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(product.Images) != 1 {
			t.Fatalf("expected one image, got %d", len(product.Images))
		}
		if product.Images[0].Position != 1 {
			t.Fatalf("expected position 1, got %d", product.Images[0].Position)
		}
		if len(storage.uploads) != 1 || !strings.HasPrefix(storage.uploads[0], "products/canvas-high-top/") {
			t.Fatalf("expected object under the product handle prefix, got %v", storage.uploads)
		}
		if !strings.HasSuffix(storage.uploads[0], ".png") {
			t.Fatalf("expected object to keep the file extension, got %v", storage.uploads)
		}
	})

	t.Run("rejects non-image uploads", func(t *testing.T) {
		svc := newProductServiceForTests(newMemoryProductRepo(), &stubStorage{})
		input := validCreateInput()
		input.Images = []ImageUpload{{Reader: strings.NewReader("not an image"), Size: 12, FileName: "note.txt"}}

		if _, err := svc.Create(ctx, input); !errors.Is(err, ErrImageInvalid) {
			t.Fatalf("expected ErrImageInvalid, got %v", err)
		}
	})

	t.Run("rejects images without configured storage", func(t *testing.T) {
		svc := newProductServiceForTests(newMemoryProductRepo(), nil)
		input := validCreateInput()
		data := encodePNG(t, 2, 2)
		input.Images = []ImageUpload{{Reader: bytes.NewReader(data), Size: int64(len(data)), FileName: "a.png"}}

		if _, err := svc.Create(ctx, input); !errors.Is(err, ErrImageInvalid) {
			t.Fatalf("expected ErrImageInvalid, got %v", err)
		}
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProductRepo()
	svc := newProductServiceForTests(repo, nil)

	created, err := svc.Create(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("by id", func(t *testing.T) {
		product, err := svc.Get(ctx, created.ID.String())
		if err != nil || product.ID != created.ID {
			t.Fatalf("expected product by id, got %v (%v)", product, err)
		}
	})

	t.Run("by handle", func(t *testing.T) {
		product, err := svc.Get(ctx, "canvas-high-top")
		if err != nil || product.ID != created.ID {
			t.Fatalf("expected product by handle, got %v (%v)", product, err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := svc.Get(ctx, "no-such-handle"); !errors.Is(err, ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProductRepo()
	svc := newProductServiceForTests(repo, nil)

	created, err := svc.Create(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("partial update", func(t *testing.T) {
		status := "draft"
		price := 49.99
		product, err := svc.Update(ctx, created.ID, UpdateProductInput{Status: &status, Price: &price})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if product.Status != domain.ProductStatusDraft || product.Price != 49.99 {
			t.Fatalf("expected draft at 49.99, got %q %v", product.Status, product.Price)
		}
		if product.Title != created.Title {
			t.Fatal("fields not in the update must be untouched")
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		status := "retired"
		if _, err := svc.Update(ctx, created.ID, UpdateProductInput{Status: &status}); !errors.Is(err, ErrProductInvalid) {
			t.Fatalf("expected ErrProductInvalid, got %v", err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		title := "New"
		if _, err := svc.Update(ctx, uuid.New(), UpdateProductInput{Title: &title}); !errors.Is(err, ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProductRepo()
	svc := newProductServiceForTests(repo, nil)

	created, err := svc.Create(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID.String()); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product to be gone, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

type stubStorage struct {
	uploads []string
	err     error
}

func (s *stubStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploads = append(s.uploads, objectName)
	return "https://cdn.test/" + bucket + "/" + objectName, nil
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func floatPtr(v float64) *float64 { return &v }
