package service

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *models.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	cache      cache.Cache
}

func NewCategoryService(categories repository.CategoryRepository, products repository.ProductRepository, cache cache.Cache) CategoryService {
	return &categoryService{categories: categories, products: products, cache: cache}
}

func (s *categoryService) CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {

	name := cleanName(req.Name)
	if name == "" {
		return nil, errors.ValidationError("Name is required")
	}

	if err := s.ensureUniqueName(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name: name,
		Slug: slug.Make(name),
	}

	if err := s.categories.CreateCategory(ctx, category); err != nil {
		return nil, mapRepoError(err, "Category not found", "Failed to create category")
	}

	invalidate(ctx, s.cache, cache.CategoryListKey)

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.CategoryRequest) (*models.Category, error) {

	name := cleanName(req.Name)
	if name == "" {
		return nil, errors.ValidationError("Name is required")
	}

	category, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Category not found", "Failed to get category")
	}

	if err := s.ensureUniqueName(ctx, name, id); err != nil {
		return nil, err
	}

	category.Name = name
	category.Slug = slug.Make(name)

	if err := s.categories.UpdateCategory(ctx, category); err != nil {
		return nil, mapRepoError(err, "Category not found", "Failed to update category")
	}

	invalidate(ctx, s.cache, cache.CategoryListKey)

	return category, nil
}

// DeleteCategory refuses to orphan products.
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {

	inUse, err := s.products.ProductExists(ctx, repository.ProductFilter{CategoryIDs: []uuid.UUID{id}})
	if err != nil {
		return errors.DatabaseError("Failed to check category products").WithError(err)
	}

	if inUse {
		return errors.ConflictError("Category still has products")
	}

	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return mapRepoError(err, "Category not found", "Failed to delete category")
	}

	invalidate(ctx, s.cache, cache.CategoryListKey)

	return nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {

	logger := middleware.LoggerFromContext(ctx)

	var categories []*models.Category

	found, err := s.cache.Get(ctx, cache.CategoryListKey, &categories)
	if err != nil {
		logger.Warn("Failed to read categories from cache", "error", err)
	}

	if found {
		return categories, nil
	}

	categories, err = s.categories.ListCategories(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list categories").WithError(err)
	}

	if err := s.cache.Set(ctx, cache.CategoryListKey, categories, 0); err != nil {
		logger.Warn("Failed to cache categories", "error", err)
	}

	return categories, nil
}

func (s *categoryService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {

	category, err := s.categories.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, mapRepoError(err, "Category not found", "Failed to get category")
	}

	return category, nil
}

func (s *categoryService) ensureUniqueName(ctx context.Context, name string, excludeID uuid.UUID) error {

	exists, err := s.categories.CategoryNameExists(ctx, name, excludeID)
	if err != nil {
		return errors.DatabaseError("Failed to check category name").WithError(err)
	}

	if exists {
		return errors.ConflictError("Category already exists")
	}

	return nil
}
