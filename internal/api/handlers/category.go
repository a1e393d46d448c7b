package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validator: validator.New()}
}

// CreateCategory godoc
//	@Summary		Create a category
//	@Description	Creates a category. Names are unique regardless of case. Requires the admin role.
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			category	body		models.CategoryRequest	true	"Category name"
//	@Success		201			{object}	models.Category			"Successfully created category"
//	@Failure		400			{object}	response.ErrorResponse	"Missing or blank name"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403			{object}	response.ErrorResponse	"Admin access required"
//	@Failure		409			{object}	response.ErrorResponse	"Category already exists"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/category/create-category [post]
func (h *CategoryHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create category input")
			return
		}

		category, err := h.categoryService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create category", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Category created successfully", slog.String("categoryId", category.ID.String()))
		response.Success(w, http.StatusCreated, category)
	}
}

// UpdateCategory godoc
//	@Summary		Rename a category
//	@Description	Renames a category and regenerates its slug. Requires the admin role.
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string					true	"Category ID (UUID)"	Format(uuid)
//	@Param			category	body		models.CategoryRequest	true	"New category name"
//	@Success		200			{object}	models.Category			"Successfully updated category"
//	@Failure		400			{object}	response.ErrorResponse	"Invalid ID or name"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403			{object}	response.ErrorResponse	"Admin access required"
//	@Failure		404			{object}	response.ErrorResponse	"Category not found"
//	@Failure		409			{object}	response.ErrorResponse	"Category already exists"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/category/update-category/{id} [put]
func (h *CategoryHandler) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid category ID format", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("categoryId", id.String()))

		var req models.CategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update category input")
			return
		}

		category, err := h.categoryService.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update category", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Category updated successfully")
		response.Success(w, http.StatusOK, category)
	}
}

// DeleteCategory godoc
//	@Summary		Delete a category
//	@Description	Deletes a category that no product references. Requires the admin role.
//	@Tags			Categories
//	@Produce		json
//	@Param			id	path		string					true	"Category ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse	"Successfully deleted category"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid category ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Admin access required"
//	@Failure		404	{object}	response.ErrorResponse	"Category not found"
//	@Failure		409	{object}	response.ErrorResponse	"Category still has products"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/category/delete-category/{id} [delete]
func (h *CategoryHandler) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid category ID format", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
			logger.Error("Failed to delete category", slog.String("categoryId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Category deleted successfully", slog.String("categoryId", id.String()))
		response.Success(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
	}
}

// ListCategories godoc
//	@Summary		List categories
//	@Description	Lists every category, newest first.
//	@Tags			Categories
//	@Produce		json
//	@Success		200	{array}		models.Category			"Successfully retrieved categories"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/category/get-category [get]
func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.categoryService.ListCategories(r.Context())
		if err != nil {
			logger.Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// GetCategory godoc
//	@Summary		Get a category by slug
//	@Tags			Categories
//	@Produce		json
//	@Param			slug	path		string					true	"Category slug"
//	@Success		200		{object}	models.Category			"Successfully retrieved category"
//	@Failure		404		{object}	response.ErrorResponse	"Category not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/category/single-category/{slug} [get]
func (h *CategoryHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		category, err := h.categoryService.GetCategoryBySlug(r.Context(), r.PathValue("slug"))
		if err != nil {
			logger.Warn("Failed to get category", slog.String("slug", r.PathValue("slug")), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}
