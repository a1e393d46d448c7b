package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product, photo *models.ProductPhoto) error
	UpdateProduct(ctx context.Context, product *models.Product, photo *models.ProductPhoto) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProductPhoto(ctx context.Context, id uuid.UUID) (*models.ProductPhoto, error)
	FindProducts(ctx context.Context, filter ProductFilter, limit, offset int) ([]*models.Product, error)
	CountProducts(ctx context.Context, filter ProductFilter) (int, error)
	ProductExists(ctx context.Context, filter ProductFilter) (bool, error)
	ProductNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

// photo_data itself is never selected here
const productColumns = `id, name, slug, description, price, quantity, category_id, shipping, photo_data IS NOT NULL, created_at, updated_at`

// newest first; seq keeps rows created in the same instant in insertion order
const productOrder = ` ORDER BY created_at DESC, seq ASC`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	product := &models.Product{}

	err := row.Scan(&product.ID, &product.Name, &product.Slug, &product.Description, &product.Price, &product.Quantity,
		&product.CategoryID, &product.Shipping, &product.HasPhoto, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return product, nil
}

// photoArgs binds a missing photo as SQL NULL rather than an empty bytea.
func photoArgs(photo *models.ProductPhoto) (any, any) {
	if photo == nil {
		return nil, nil
	}

	return photo.Data, photo.ContentType
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product, photo *models.ProductPhoto) error {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	photoData, photoContentType := photoArgs(photo)

	query := `INSERT INTO products (name, slug, description, price, quantity, category_id, shipping, photo_data, photo_content_type)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id, created_at, updated_at`

	err := withUniqueSlug(&product.Slug, productSlugIndex, func() error {
		return r.DB.QueryRowContext(dbCtx, query, product.Name, product.Slug, product.Description, product.Price, product.Quantity,
			product.CategoryID, product.Shipping, photoData, photoContentType).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", translate(err, ErrMissingParent))
	}

	product.HasPhoto = photo != nil

	return nil
}

// UpdateProduct keeps the stored photo when photo is nil. It returns
// sql.ErrNoRows when the product does not exist.
func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product, photo *models.ProductPhoto) error {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	photoData, photoContentType := photoArgs(photo)

	query := `UPDATE products SET name = $1, slug = $2, description = $3, price = $4, quantity = $5, category_id = $6, shipping = $7,
			  photo_data = COALESCE($8, photo_data), photo_content_type = COALESCE($9, photo_content_type), updated_at = NOW()
			  WHERE id = $10
			  RETURNING photo_data IS NOT NULL, created_at, updated_at`

	err := withUniqueSlug(&product.Slug, productSlugIndex, func() error {
		return r.DB.QueryRowContext(dbCtx, query, product.Name, product.Slug, product.Description, product.Price, product.Quantity,
			product.CategoryID, product.Shipping, photoData, photoContentType, product.ID).Scan(&product.HasPhoto, &product.CreatedAt, &product.UpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", translate(err, ErrMissingParent))
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

// GetProductBySlug also loads the product's category.
func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `
		SELECT p.id, p.name, p.slug, p.description, p.price, p.quantity, p.category_id, p.shipping,
		       p.photo_data IS NOT NULL, p.created_at, p.updated_at,
		       c.id, c.name, c.slug, c.created_at, c.updated_at
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE p.slug = $1
		ORDER BY p.created_at DESC
		LIMIT 1`

	product := &models.Product{}
	category := &models.Category{}

	err := r.DB.QueryRowContext(dbCtx, query, slug).Scan(&product.ID, &product.Name, &product.Slug, &product.Description,
		&product.Price, &product.Quantity, &product.CategoryID, &product.Shipping, &product.HasPhoto, &product.CreatedAt, &product.UpdatedAt,
		&category.ID, &category.Name, &category.Slug, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	product.Category = category

	return product, nil
}

// GetProductPhoto returns sql.ErrNoRows when the product is missing or has
// no photo.
func (r *productRepository) GetProductPhoto(ctx context.Context, id uuid.UUID) (*models.ProductPhoto, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `SELECT photo_data, photo_content_type FROM products WHERE id = $1 AND photo_data IS NOT NULL`

	var (
		photo       models.ProductPhoto
		contentType sql.NullString
	)

	if err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&photo.Data, &contentType); err != nil {
		return nil, fmt.Errorf("failed to get product photo: %w", err)
	}

	photo.ContentType = contentType.String

	return &photo, nil
}

// FindProducts returns one page of matches; a limit of zero returns them all.
func (r *productRepository) FindProducts(ctx context.Context, filter ProductFilter, limit, offset int) ([]*models.Product, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	where, args := filter.Where()

	query := `SELECT ` + productColumns + ` FROM products ` + where + productOrder

	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) CountProducts(ctx context.Context, filter ProductFilter) (int, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	where, args := filter.Where()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return total, nil
}

func (r *productRepository) ProductExists(ctx context.Context, filter ProductFilter) (bool, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	where, args := filter.Where()

	var exists bool
	if err := r.DB.QueryRowContext(dbCtx, `SELECT EXISTS (SELECT 1 FROM products `+where+`)`, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check products: %w", err)
	}

	return exists, nil
}

func (r *productRepository) ProductNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `SELECT EXISTS (SELECT 1 FROM products WHERE lower(name) = lower($1) AND id <> $2)`

	var exists bool
	if err := r.DB.QueryRowContext(dbCtx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}

	return exists, nil
}
