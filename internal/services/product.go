package service

import (
	"context"
	"math"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MaxPhotoSize is the largest product photo accepted, in bytes.
const MaxPhotoSize = 1 << 20

const relatedLimit = 3

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.ProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.ProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProductPhoto(ctx context.Context, id uuid.UUID) (*models.ProductPhoto, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	CountProducts(ctx context.Context) (int, error)
	ListProductPage(ctx context.Context, page int) (*models.ProductPage, error)
	FilterProducts(ctx context.Context, req *models.ProductFilterRequest) (*models.ProductPage, error)
	ProductsByCategory(ctx context.Context, categorySlug string) (*models.CategoryProducts, error)
	SearchProducts(ctx context.Context, keyword string) ([]*models.Product, error)
	RelatedProducts(ctx context.Context, productID, categoryID uuid.UUID) ([]*models.Product, error)
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      cache.Cache
}

func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, cache cache.Cache) ProductService {
	return &productService{products: products, categories: categories, cache: cache}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {

	product := &models.Product{}
	if err := applyProductRequest(product, req); err != nil {
		return nil, err
	}

	if err := s.ensureUniqueName(ctx, product.Name, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.products.CreateProduct(ctx, product, req.Photo); err != nil {
		return nil, mapRepoError(err, "Product not found", "Failed to create product")
	}

	invalidate(ctx, s.cache, cache.ProductCountKey)

	return product, nil
}

// UpdateProduct replaces every field; the stored photo is kept when the
// request carries none.
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.ProductRequest) (*models.Product, error) {

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Product not found", "Failed to get product")
	}

	if err := applyProductRequest(product, req); err != nil {
		return nil, err
	}

	if err := s.ensureUniqueName(ctx, product.Name, id); err != nil {
		return nil, err
	}

	if err := s.products.UpdateProduct(ctx, product, req.Photo); err != nil {
		return nil, mapRepoError(err, "Product not found", "Failed to update product")
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return mapRepoError(err, "Product not found", "Failed to delete product")
	}

	invalidate(ctx, s.cache, cache.ProductCountKey)

	return nil
}

func (s *productService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {

	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, mapRepoError(err, "Product not found", "Failed to get product")
	}

	return product, nil
}

func (s *productService) GetProductPhoto(ctx context.Context, id uuid.UUID) (*models.ProductPhoto, error) {

	photo, err := s.products.GetProductPhoto(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Photo not found", "Failed to get product photo")
	}

	return photo, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]*models.Product, error) {

	products, err := s.products.FindProducts(ctx, repository.ProductFilter{}, 0, 0)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list products").WithError(err)
	}

	return products, nil
}

func (s *productService) CountProducts(ctx context.Context) (int, error) {

	logger := middleware.LoggerFromContext(ctx)

	var total int

	found, err := s.cache.Get(ctx, cache.ProductCountKey, &total)
	if err != nil {
		logger.Warn("Failed to read product count from cache", "error", err)
	}

	if found {
		return total, nil
	}

	total, err = s.products.CountProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return 0, errors.DatabaseError("Failed to count products").WithError(err)
	}

	if err := s.cache.Set(ctx, cache.ProductCountKey, total, 0); err != nil {
		logger.Warn("Failed to cache product count", "error", err)
	}

	return total, nil
}

// ListProductPage rejects non-positive pages; FilterProducts clamps them.
func (s *productService) ListProductPage(ctx context.Context, page int) (*models.ProductPage, error) {

	if page < 1 {
		return nil, errors.ValidationError("Invalid page number")
	}

	total, err := s.CountProducts(ctx)
	if err != nil {
		return nil, err
	}

	return s.page(ctx, repository.ProductFilter{}, page, total)
}

func (s *productService) FilterProducts(ctx context.Context, req *models.ProductFilterRequest) (*models.ProductPage, error) {

	filter := repository.ProductFilter{CategoryIDs: req.Checked}

	switch len(req.Radio) {
	case 0:
	case 2:
		filter.Price = &repository.PriceRange{Min: req.Radio[0], Max: req.Radio[1]}
	default:
		return nil, errors.ValidationError("Invalid radio field")
	}

	page := max(req.Page, 1)

	total, err := s.products.CountProducts(ctx, filter)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count products").WithError(err)
	}

	return s.page(ctx, filter, page, total)
}

func (s *productService) page(ctx context.Context, filter repository.ProductFilter, page, total int) (*models.ProductPage, error) {

	products := []*models.Product{}

	// past the last page there is nothing to fetch
	if models.Offset(page) < total {
		var err error

		products, err = s.products.FindProducts(ctx, filter, models.PerPage, models.Offset(page))
		if err != nil {
			return nil, errors.DatabaseError("Failed to list products").WithError(err)
		}
	}

	return &models.ProductPage{
		Products: products,
		Total:    total,
		Page:     page,
		Pages:    models.PageCount(total),
	}, nil
}

func (s *productService) ProductsByCategory(ctx context.Context, categorySlug string) (*models.CategoryProducts, error) {

	category, err := s.categories.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, mapRepoError(err, "Category not found", "Failed to get category")
	}

	products, err := s.products.FindProducts(ctx, repository.ProductFilter{CategoryIDs: []uuid.UUID{category.ID}}, 0, 0)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list products").WithError(err)
	}

	return &models.CategoryProducts{Category: category, Products: products}, nil
}

func (s *productService) SearchProducts(ctx context.Context, keyword string) ([]*models.Product, error) {

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errors.ValidationError("Keyword is required")
	}

	products, err := s.products.FindProducts(ctx, repository.ProductFilter{Keyword: keyword}, 0, 0)
	if err != nil {
		return nil, errors.DatabaseError("Failed to search products").WithError(err)
	}

	return products, nil
}

// RelatedProducts returns up to three other products of the same category.
func (s *productService) RelatedProducts(ctx context.Context, productID, categoryID uuid.UUID) ([]*models.Product, error) {

	filter := repository.ProductFilter{CategoryIDs: []uuid.UUID{categoryID}, ExcludeID: productID}

	products, err := s.products.FindProducts(ctx, filter, relatedLimit, 0)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list related products").WithError(err)
	}

	return products, nil
}

func (s *productService) ensureUniqueName(ctx context.Context, name string, excludeID uuid.UUID) error {

	exists, err := s.products.ProductNameExists(ctx, name, excludeID)
	if err != nil {
		return errors.DatabaseError("Failed to check product name").WithError(err)
	}

	if exists {
		return errors.ConflictError("Product already exists")
	}

	return nil
}

func applyProductRequest(product *models.Product, req *models.ProductRequest) error {

	name := cleanName(req.Name)
	if name == "" {
		return errors.ValidationError("Name is required")
	}

	description := cleanText(req.Description)
	if description == "" {
		return errors.ValidationError("Description is required")
	}

	if req.Price < 0 || math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return errors.ValidationError("Invalid price")
	}

	if req.Quantity < 0 {
		return errors.ValidationError("Invalid quantity")
	}

	if req.CategoryID == uuid.Nil {
		return errors.ValidationError("Category is required")
	}

	if req.Photo != nil && len(req.Photo.Data) > MaxPhotoSize {
		return errors.ValidationError("Photo must be at most 1MB")
	}

	product.Name = name
	product.Slug = slug.Make(name)
	product.Description = description
	product.Price = req.Price
	product.Quantity = req.Quantity
	product.CategoryID = req.CategoryID
	product.Shipping = req.Shipping

	return nil
}
