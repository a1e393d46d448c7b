package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CategoryNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

const categoryColumns = `id, name, slug, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	category := &models.Category{}

	if err := row.Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt, &category.UpdatedAt); err != nil {
		return nil, err
	}

	return category, nil
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id, created_at, updated_at`

	err := withUniqueSlug(&category.Slug, categorySlugIndex, func() error {
		return r.DB.QueryRowContext(dbCtx, query, category.Name, category.Slug).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", translate(err, ErrMissingParent))
	}

	return nil
}

// UpdateCategory returns sql.ErrNoRows when the category does not exist.
func (r *categoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `UPDATE categories SET name = $1, slug = $2, updated_at = NOW() WHERE id = $3 RETURNING created_at, updated_at`

	err := withUniqueSlug(&category.Slug, categorySlugIndex, func() error {
		return r.DB.QueryRowContext(dbCtx, query, category.Name, category.Slug, category.ID).Scan(&category.CreatedAt, &category.UpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("failed to update category: %w", translate(err, ErrMissingParent))
	}

	return nil
}

// DeleteCategory returns ErrReferenced when products still point at the
// category and sql.ErrNoRows when it does not exist.
func (r *categoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", translate(err, ErrReferenced))
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

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	category, err := scanCategory(r.DB.QueryRowContext(dbCtx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`

	category, err := scanCategory(r.DB.QueryRowContext(dbCtx, query, slug))
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT `+categoryColumns+` FROM categories ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}

	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// CategoryNameExists matches the whole name case-insensitively. Pass uuid.Nil
// to check against every category.
func (r *categoryRepository) CategoryNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name) = lower($1) AND id <> $2)`

	var exists bool
	if err := r.DB.QueryRowContext(dbCtx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}

	return exists, nil
}
