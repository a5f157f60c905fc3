package http

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"

	"github.com/rksharma7071/TrueStyle-API/internal/domain"
	"github.com/rksharma7071/TrueStyle-API/internal/media"
	"github.com/rksharma7071/TrueStyle-API/internal/repository/ports"
	"github.com/rksharma7071/TrueStyle-API/internal/service"
	"github.com/rksharma7071/TrueStyle-API/internal/util"
)

type stubProductRepo struct {
	products map[uuid.UUID]*domain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*domain.Product)}
}

func (s *stubProductRepo) Create(ctx context.Context, params ports.CreateProductParams) (*domain.Product, error) {
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
	for _, img := range params.Images {
		product.Images = append(product.Images, domain.Image{
			ID:        uuid.New(),
			ProductID: product.ID,
			Src:       img.Src,
			Alt:       img.Alt,
			Position:  img.Position,
		})
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return product, nil
}

func (s *stubProductRepo) FindByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	for _, product := range s.products {
		if product.Handle == handle {
			return product, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubProductRepo) FindByTitleOrHandle(ctx context.Context, title, handle string) (*domain.Product, error) {
	for _, product := range s.products {
		if product.Title == title || product.Handle == handle {
			return product, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubProductRepo) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		out = append(out, *product)
	}
	return out, nil
}

func (s *stubProductRepo) Update(ctx context.Context, id uuid.UUID, params ports.UpdateProductParams) (*domain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return product, nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.products, id)
	return nil
}

type uploadRecorder struct {
	uploads []string
	sizes   []int64
}

func (r *uploadRecorder) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	r.uploads = append(r.uploads, objectName)
	r.sizes = append(r.sizes, int64(len(data)))
	return "https://cdn.test/" + bucket + "/" + objectName, nil
}

func newProductTestServer(t *testing.T) (*echo.Echo, *stubProductRepo, *uploadRecorder, string) {
	t.Helper()
	userRepo := newStubUserRepo()
	tokens := util.NewTokenManager("handler-test-secret")
	auth := service.NewAuthService(userRepo, &captureMailer{}, tokens, "", 5*time.Minute, time.Minute)

	admin, err := userRepo.Create(context.Background(), ports.CreateUserParams{
		Username:     "boss",
		Email:        "boss@example.com",
		PasswordHash: "irrelevant",
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	token, _, err := tokens.Generate(admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	productRepo := newStubProductRepo()
	storage := &uploadRecorder{}
	validator := media.NewValidator(1<<20, media.DefaultMaxDimension)
	products := service.NewProductService(productRepo, storage, validator, "truestyle-products")

	e := NewRouter([]string{"*"})
	RegisterAuth(e, auth)
	RegisterProducts(e, auth, products)
	return e, productRepo, storage, token
}

func buildMultipartProduct(t *testing.T, imageCount int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"title":        "Canvas High Top",
		"price":        "59.99",
		"vendor":       "TrueStyle",
		"product_type": "Shoes",
		"status":       "active",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}

	var pngData bytes.Buffer
	if err := png.Encode(&pngData, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	for i := 0; i < imageCount; i++ {
		part, err := writer.CreateFormFile("images", "upload.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(pngData.Bytes()); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestCreateProductMultipart(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		e, _, _, token := newProductTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(
			`{"title":"Canvas High Top","price":59.99,"vendor":"TrueStyle","product_type":"Shoes","status":"active"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("multipart with in-memory image parts", func(t *testing.T) {
		e, _, storage, token := newProductTestServer(t)
		body, contentType := buildMultipartProduct(t, 2)
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(storage.uploads) != 2 {
			t.Fatalf("expected two uploads, got %d", len(storage.uploads))
		}
	})

	t.Run("multipart with disk-backed image parts", func(t *testing.T) {
		// a tiny memory budget pushes every file part to a temp file, the
		// same situation as a large request exceeding the default budget;
		// the parts must still be readable when the service consumes them
		e, _, storage, token := newProductTestServer(t)
		body, contentType := buildMultipartProduct(t, 3)
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		if err := req.ParseMultipartForm(1); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		defer req.MultipartForm.RemoveAll()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(storage.uploads) != 3 {
			t.Fatalf("expected three uploads, got %d", len(storage.uploads))
		}
		for _, size := range storage.sizes {
			if size == 0 {
				t.Fatal("uploaded parts must carry their content")
			}
		}
	})
}
