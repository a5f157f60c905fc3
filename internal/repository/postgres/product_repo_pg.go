package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rksharma7071/TrueStyle-API/internal/domain"
	"github.com/rksharma7071/TrueStyle-API/internal/repository/ports"
)

const productColumns = `id, title, description, price, vendor, product_type, handle, status, tags, created_at, updated_at`

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, params ports.CreateProductParams) (*domain.Product, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const productQuery = `
        INSERT INTO product (title, description, price, vendor, product_type, handle, status, tags)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + productColumns
	var product domain.Product
	row := tx.QueryRowxContext(ctx, productQuery,
		params.Title, params.Description, params.Price, params.Vendor,
		params.ProductType, params.Handle, params.Status, pq.StringArray(params.Tags))
	if err := row.StructScan(&product); err != nil {
		return nil, err
	}

	const variantQuery = `
        INSERT INTO variant (product_id, title, sku, price, compare_at_price, inventory_quantity, weight, barcode, requires_shipping)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, product_id, title, sku, price, compare_at_price, inventory_quantity, weight, barcode, requires_shipping, created_at, updated_at
    `
	for _, v := range params.Variants {
		var variant domain.Variant
		row := tx.QueryRowxContext(ctx, variantQuery,
			product.ID, v.Title, v.SKU, v.Price, v.CompareAtPrice,
			v.InventoryQuantity, v.Weight, v.Barcode, v.RequiresShipping)
		if err := row.StructScan(&variant); err != nil {
			return nil, err
		}
		product.Variants = append(product.Variants, variant)
	}

	const imageQuery = `
        INSERT INTO image (product_id, src, alt, position)
        VALUES ($1, $2, $3, $4)
        RETURNING id, product_id, src, alt, position, created_at, updated_at
    `
	for _, img := range params.Images {
		var image domain.Image
		row := tx.QueryRowxContext(ctx, imageQuery, product.ID, img.Src, img.Alt, img.Position)
		if err := row.StructScan(&image); err != nil {
			return nil, err
		}
		product.Images = append(product.Images, image)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM product WHERE id = $1`
	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, err
	}
	if err := r.loadAssociations(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM product WHERE handle = $1`
	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, handle); err != nil {
		return nil, err
	}
	if err := r.loadAssociations(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindByTitleOrHandle(ctx context.Context, title, handle string) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM product WHERE title = $1 OR handle = $2 LIMIT 1`
	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, title, handle); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	const query = `
        SELECT ` + productColumns + `
        FROM product
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	products := []domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, limit, offset); err != nil {
		return nil, err
	}
	for i := range products {
		if err := r.loadAssociations(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, params ports.UpdateProductParams) (*domain.Product, error) {
	const query = `
        UPDATE product
        SET title = COALESCE($2, title),
            description = COALESCE($3, description),
            price = COALESCE($4, price),
            vendor = COALESCE($5, vendor),
            product_type = COALESCE($6, product_type),
            status = COALESCE($7, status),
            tags = COALESCE($8, tags),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + productColumns
	var tags interface{}
	if params.Tags != nil {
		tags = pq.StringArray(params.Tags)
	}
	var product domain.Product
	row := r.db.QueryRowxContext(ctx, query, id,
		params.Title, params.Description, params.Price, params.Vendor,
		params.ProductType, params.Status, tags)
	if err := row.StructScan(&product); err != nil {
		return nil, err
	}
	if err := r.loadAssociations(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// variant and image rows go with the product via ON DELETE CASCADE
	const query = `DELETE FROM product WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *ProductRepository) loadAssociations(ctx context.Context, product *domain.Product) error {
	const variantQuery = `
        SELECT id, product_id, title, sku, price, compare_at_price, inventory_quantity, weight, barcode, requires_shipping, created_at, updated_at
        FROM variant
        WHERE product_id = $1
        ORDER BY created_at
    `
	variants := []domain.Variant{}
	if err := r.db.SelectContext(ctx, &variants, variantQuery, product.ID); err != nil {
		return err
	}
	product.Variants = variants

	const imageQuery = `
        SELECT id, product_id, src, alt, position, created_at, updated_at
        FROM image
        WHERE product_id = $1
        ORDER BY position, created_at
    `
	images := []domain.Image{}
	if err := r.db.SelectContext(ctx, &images, imageQuery, product.ID); err != nil {
		return err
	}
	product.Images = images
	return nil
}
