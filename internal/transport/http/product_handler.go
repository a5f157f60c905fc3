package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rksharma7071/TrueStyle-API/internal/service"
	"github.com/rksharma7071/TrueStyle-API/internal/util"
)

type ProductHandler struct {
	products *service.ProductService
}

func RegisterProducts(e *echo.Echo, auth *service.AuthService, products *service.ProductService) {
	handler := &ProductHandler{products: products}

	e.GET("/products", handler.list)
	e.GET("/products/:id", handler.get)

	admin := e.Group("/products", RequireAuth(auth), RequireAdmin())
	admin.POST("", handler.create)
	admin.PUT("/:id", handler.update)
	admin.DELETE("/:id", handler.delete)
}

func (h *ProductHandler) list(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	products, err := h.products.List(c.Request().Context(), limit, offset)
	if err != nil {
		c.Logger().Errorf("list products: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("Internal Server Error"))
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) get(c echo.Context) error {
	product, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.writeProductError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

type createProductRequest struct {
	Title       string                 `json:"title" form:"title"`
	Description *string                `json:"description" form:"description"`
	Price       float64                `json:"price" form:"price"`
	Vendor      string                 `json:"vendor" form:"vendor"`
	ProductType string                 `json:"product_type" form:"product_type"`
	Status      string                 `json:"status" form:"status"`
	Tags        []string               `json:"tags"`
	Variants    []service.VariantInput `json:"variants"`
}

func (h *ProductHandler) create(c echo.Context) error {
	input, closers, err := h.bindCreateRequest(c)
	// uploaded file parts may be disk-backed; they stay open until the
	// service has consumed them
	defer func() {
		for _, closer := range closers {
			closer.Close()
		}
	}()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	product, err := h.products.Create(c.Request().Context(), *input)
	if err != nil {
		return h.writeProductError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Envelope{
		"message": "Product created successfully!",
		"product": product,
	})
}

func (h *ProductHandler) bindCreateRequest(c echo.Context) (*service.CreateProductInput, []io.Closer, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data") {
		var req createProductRequest
		if err := c.Bind(&req); err != nil {
			return nil, nil, errors.New("invalid request body")
		}
		return &service.CreateProductInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Vendor:      req.Vendor,
			ProductType: req.ProductType,
			Status:      req.Status,
			Tags:        req.Tags,
			Variants:    req.Variants,
		}, nil, nil
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price")), 64)
	if err != nil {
		return nil, nil, errors.New("price must be a number")
	}

	input := service.CreateProductInput{
		Title:       c.FormValue("title"),
		Price:       price,
		Vendor:      c.FormValue("vendor"),
		ProductType: c.FormValue("product_type"),
		Status:      c.FormValue("status"),
	}
	if desc := c.FormValue("description"); desc != "" {
		input.Description = &desc
	}
	if raw := c.FormValue("tags"); raw != "" {
		if err := parseJSONField(raw, &input.Tags); err != nil {
			return nil, nil, errors.New("invalid tags format")
		}
	}
	if raw := c.FormValue("variants"); raw != "" {
		if err := parseJSONField(raw, &input.Variants); err != nil {
			return nil, nil, errors.New("invalid variants format")
		}
	}

	var closers []io.Closer
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		for _, fileHeader := range form.File["images"] {
			file, err := fileHeader.Open()
			if err != nil {
				return nil, closers, errors.New("unable to read uploaded image")
			}
			closers = append(closers, file)
			input.Images = append(input.Images, service.ImageUpload{
				Reader:   file,
				Size:     fileHeader.Size,
				FileName: fileHeader.Filename,
			})
		}
	}
	return &input, closers, nil
}

// parseJSONField tolerates single-quoted arrays coming from form clients.
func parseJSONField(raw string, out interface{}) error {
	normalized := strings.ReplaceAll(raw, "'", `"`)
	return json.Unmarshal([]byte(normalized), out)
}

type updateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Vendor      *string  `json:"vendor"`
	ProductType *string  `json:"product_type"`
	Status      *string  `json:"status"`
	Tags        []string `json:"tags"`
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid product id"))
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	product, err := h.products.Update(c.Request().Context(), id, service.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Vendor:      req.Vendor,
		ProductType: req.ProductType,
		Status:      req.Status,
		Tags:        req.Tags,
	})
	if err != nil {
		return h.writeProductError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"status": "success", "product": product})
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid product id"))
	}

	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return h.writeProductError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"status": "success", "message": "Product deleted successfully"})
}

func (h *ProductHandler) writeProductError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrProductInvalid), errors.Is(err, service.ErrImageInvalid):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, util.Error("Product not found"))
	case errors.Is(err, service.ErrProductExists):
		return c.JSON(http.StatusConflict, util.Error("Product already exists"))
	default:
		c.Logger().Errorf("product error: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("Internal Server Error"))
	}
}
