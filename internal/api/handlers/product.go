package handlers

import (
	stdErrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// room for the text fields and multipart framing around the photo
const formOverhead = 64 << 10

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

// CreateProduct godoc
//	@Summary		Create a product
//	@Description	Creates a product from a multipart form. The photo is optional and at most 1MB. Requires the admin role.
//	@Tags			Products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name		formData	string					true	"Product name"
//	@Param			description	formData	string					true	"Product description"
//	@Param			price		formData	number					true	"Price"
//	@Param			quantity	formData	integer					true	"Units in stock"
//	@Param			category	formData	string					true	"Category ID (UUID)"
//	@Param			shipping	formData	boolean					false	"Ships physically"
//	@Param			photo		formData	file					false	"Product photo"
//	@Success		201			{object}	models.Product			"Successfully created product"
//	@Failure		400			{object}	response.ErrorResponse	"Invalid form"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403			{object}	response.ErrorResponse	"Admin access required"
//	@Failure		404			{object}	response.ErrorResponse	"Category not found"
//	@Failure		409			{object}	response.ErrorResponse	"Product already exists"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/product/create-product [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		req, err := h.parseProductForm(w, r)
		if err != nil {
			logger.Warn("Invalid create product input", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), req)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product created successfully", slog.String("productId", product.ID.String()))
		response.Success(w, http.StatusCreated, product)
	}
}

// UpdateProduct godoc
//	@Summary		Update a product
//	@Description	Replaces a product's fields from a multipart form. The stored photo is kept unless a new one is sent. Requires the admin role.
//	@Tags			Products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id			path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Param			name		formData	string					true	"Product name"
//	@Param			description	formData	string					true	"Product description"
//	@Param			price		formData	number					true	"Price"
//	@Param			quantity	formData	integer					true	"Units in stock"
//	@Param			category	formData	string					true	"Category ID (UUID)"
//	@Param			shipping	formData	boolean					false	"Ships physically"
//	@Param			photo		formData	file					false	"Product photo"
//	@Success		200			{object}	models.Product			"Successfully updated product"
//	@Failure		400			{object}	response.ErrorResponse	"Invalid form"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403			{object}	response.ErrorResponse	"Admin access required"
//	@Failure		404			{object}	response.ErrorResponse	"Product or category not found"
//	@Failure		409			{object}	response.ErrorResponse	"Product already exists"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/product/update-product/{id} [put]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product ID format", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("productId", id.String()))

		req, err := h.parseProductForm(w, r)
		if err != nil {
			logger.Warn("Invalid update product input", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, req)
		if err != nil {
			logger.Error("Failed to update product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated successfully")
		response.Success(w, http.StatusOK, product)
	}
}

// DeleteProduct godoc
//	@Summary		Delete a product
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse	"Successfully deleted product"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Admin access required"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/product/delete-product/{id} [delete]
func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product ID format", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Error("Failed to delete product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted successfully", slog.String("productId", id.String()))
		response.Success(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
	}
}

// ListProducts godoc
//	@Summary		List all products
//	@Description	Lists every product, newest first. Photos are served separately.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}		models.Product			"Successfully retrieved products"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/product/get-product [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		products, err := h.productService.ListProducts(r.Context())
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

// GetProduct godoc
//	@Summary		Get a product by slug
//	@Tags			Products
//	@Produce		json
//	@Param			slug	path		string					true	"Product slug"
//	@Success		200		{object}	models.Product			"Successfully retrieved product"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/product/get-product/{slug} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		product, err := h.productService.GetProductBySlug(r.Context(), r.PathValue("slug"))
		if err != nil {
			logger.Warn("Failed to get product", slog.String("slug", r.PathValue("slug")), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ProductPhoto godoc
//	@Summary		Get a product photo
//	@Description	Returns the raw photo bytes with their content type.
//	@Tags			Products
//	@Produce		image/jpeg,image/png,image/gif,image/webp
//	@Param			id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{file}		binary					"Photo bytes"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Photo not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/product/product-photo/{id} [get]
func (h *ProductHandler) ProductPhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		photo, err := h.productService.GetProductPhoto(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product photo", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		w.Header().Set("Content-Type", photo.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(photo.Data)))
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(photo.Data); err != nil {
			logger.Warn("Failed to write product photo", slog.Any("error", err))
		}
	}
}

// FilterProducts godoc
//	@Summary		Filter products
//	@Description	Filters by category and an inclusive price range, six per page, newest first. Page numbers below 1 are treated as 1.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			filter	body		models.ProductFilterRequest	false	"Category IDs, [min, max] price range and page"
//	@Success		200		{object}	models.ProductPage			"Matching page"
//	@Failure		400		{object}	response.ErrorResponse		"Invalid radio field"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Router			/product/product-filters [post]
func (h *ProductHandler) FilterProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.ProductFilterRequest

		// an empty body means no filter
		if err := utils.DecodeJSON(w, r, &req); err != nil && !stdErrors.Is(err, utils.ErrEmptyBody) {
			logger.Warn("Invalid filter input", slog.Any("error", err))
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		page, err := h.productService.FilterProducts(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to filter products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, page)
	}
}

// ProductCount godoc
//	@Summary		Count products
//	@Tags			Products
//	@Produce		json
//	@Success		200	{object}	map[string]int			"Total product count"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/product/product-count [get]
func (h *ProductHandler) ProductCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		total, err := h.productService.CountProducts(r.Context())
		if err != nil {
			logger.Error("Failed to count products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]int{"total": total})
	}
}

// ProductList godoc
//	@Summary		List products by page
//	@Description	Unfiltered listing, six per page, newest first.
//	@Tags			Products
//	@Produce		json
//	@Param			page	path		integer					true	"Page number, starting at 1"
//	@Success		200		{object}	models.ProductPage		"Requested page"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid page number"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/product/product-list/{page} [get]
func (h *ProductHandler) ProductList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		pageNumber, err := utils.ParsePage(r, "page")
		if err != nil {
			logger.Warn("Invalid page number", slog.String("page", r.PathValue("page")))
			response.Error(w, err)
			return
		}

		page, err := h.productService.ListProductPage(r.Context(), pageNumber)
		if err != nil {
			logger.Warn("Failed to list products", slog.Int("page", pageNumber), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, page)
	}
}

// ProductCategory godoc
//	@Summary		List a category's products
//	@Tags			Products
//	@Produce		json
//	@Param			slug	path		string					true	"Category slug"
//	@Success		200		{object}	models.CategoryProducts	"Category and its products"
//	@Failure		404		{object}	response.ErrorResponse	"Category not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/product/product-category/{slug} [get]
func (h *ProductHandler) ProductCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		result, err := h.productService.ProductsByCategory(r.Context(), r.PathValue("slug"))
		if err != nil {
			logger.Warn("Failed to list category products", slog.String("slug", r.PathValue("slug")), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}

// SearchProducts godoc
//	@Summary		Search products
//	@Description	Case-insensitive match against product names and descriptions.
//	@Tags			Products
//	@Produce		json
//	@Param			keyword	path		string					true	"Search keyword"
//	@Success		200		{array}		models.Product			"Matching products"
//	@Failure		400		{object}	response.ErrorResponse	"Keyword is required"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/product/search/{keyword} [get]
func (h *ProductHandler) SearchProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		products, err := h.productService.SearchProducts(r.Context(), r.PathValue("keyword"))
		if err != nil {
			logger.Warn("Failed to search products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

// RelatedProducts godoc
//	@Summary		Related products
//	@Description	Up to three other products from the same category.
//	@Tags			Products
//	@Produce		json
//	@Param			pid	path		string					true	"Product ID (UUID)"		Format(uuid)
//	@Param			cid	path		string					true	"Category ID (UUID)"	Format(uuid)
//	@Success		200	{array}		models.Product			"Related products"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid ID format"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/product/related-product/{pid}/{cid} [get]
func (h *ProductHandler) RelatedProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		productID, err := utils.ParseID(r, "pid")
		if err != nil {
			response.Error(w, err)
			return
		}

		categoryID, err := utils.ParseID(r, "cid")
		if err != nil {
			response.Error(w, err)
			return
		}

		products, err := h.productService.RelatedProducts(r.Context(), productID, categoryID)
		if err != nil {
			logger.Error("Failed to list related products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (*models.ProductRequest, error) {

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxPhotoSize+formOverhead)

	if err := r.ParseMultipartForm(service.MaxPhotoSize + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) {
			return nil, errors.ValidationError("Photo must be at most 1MB").WithError(err)
		}

		return nil, errors.BadRequestError("Invalid multipart form").WithError(err)
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		return nil, errors.AddValidationError("price", "must be a number").WithError(err)
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		return nil, errors.AddValidationError("quantity", "must be a whole number").WithError(err)
	}

	categoryID, err := uuid.Parse(r.FormValue("category"))
	if err != nil {
		return nil, errors.AddValidationError("category", "must be a category id").WithError(err)
	}

	req := &models.ProductRequest{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Quantity:    quantity,
		CategoryID:  categoryID,
	}

	if shipping := r.FormValue("shipping"); shipping != "" {
		req.Shipping, _ = strconv.ParseBool(shipping)
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, errors.ValidationError("Invalid product fields").WithError(err)
	}

	photo, err := readPhoto(r)
	if err != nil {
		return nil, err
	}

	req.Photo = photo

	return req, nil
}

// readPhoto returns nil when the form carries no photo.
func readPhoto(r *http.Request) (*models.ProductPhoto, error) {

	file, header, err := r.FormFile("photo")
	if stdErrors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.BadRequestError("Invalid photo").WithError(err)
	}
	defer file.Close()

	if header.Size > service.MaxPhotoSize {
		return nil, errors.ValidationError("Photo must be at most 1MB")
	}

	data, err := io.ReadAll(io.LimitReader(file, service.MaxPhotoSize+1))
	if err != nil {
		return nil, errors.BadRequestError("Invalid photo").WithError(err)
	}

	if len(data) > service.MaxPhotoSize {
		return nil, errors.ValidationError("Photo must be at most 1MB")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &models.ProductPhoto{Data: data, ContentType: contentType}, nil
}
