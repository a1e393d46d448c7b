package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func productForm(t *testing.T, fields map[string]string, photo []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if photo != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="photo"; filename="mug.png"`)
		header.Set("Content-Type", "image/png")

		part, err := writer.CreatePart(header)
		require.NoError(t, err)

		_, err = part.Write(photo)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestCreateProduct(t *testing.T) {
	categoryID := uuid.New()

	validFields := func() map[string]string {
		return map[string]string{
			"name":        "Blue Mug",
			"description": "A sturdy mug",
			"price":       "12.50",
			"quantity":    "4",
			"category":    categoryID.String(),
			"shipping":    "true",
		}
	}

	t.Run("Success - With photo", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)
		photo := []byte("\x89PNG\r\n\x1a\nfake")

		mockProductService.On("CreateProduct", mock.Anything, mock.MatchedBy(func(req *models.ProductRequest) bool {
			return req.Name == "Blue Mug" && req.Price == 12.5 && req.Quantity == 4 && req.CategoryID == categoryID &&
				req.Shipping && req.Photo != nil && req.Photo.ContentType == "image/png" && bytes.Equal(req.Photo.Data, photo)
		})).Return(&models.Product{ID: uuid.New(), Name: "Blue Mug", Slug: "blue-mug", HasPhoto: true}, nil).Once()

		body, contentType := productForm(t, validFields(), photo)
		req := testutils.CreateAdminRequest(http.MethodPost, "/product/create-product", body, nil)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		// Act
		productHandler.CreateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var product models.Product
		decodeResponse(t, rr, &product)
		assert.Equal(t, "blue-mug", product.Slug)
		assert.True(t, product.HasPhoto)
	})

	t.Run("Success - Without photo", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		mockProductService.On("CreateProduct", mock.Anything, mock.MatchedBy(func(req *models.ProductRequest) bool {
			return req.Photo == nil
		})).Return(&models.Product{ID: uuid.New()}, nil).Once()

		body, contentType := productForm(t, validFields(), nil)
		req := testutils.CreateAdminRequest(http.MethodPost, "/product/create-product", body, nil)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		productHandler.CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Failure - Invalid form values", func(t *testing.T) {
		for field, value := range map[string]string{"price": "cheap", "quantity": "1.5", "category": "garden"} {
			t.Run(field, func(t *testing.T) {
				mockProductService := mocks.NewProductService(t)
				productHandler := handlers.NewProductHandler(mockProductService)

				fields := validFields()
				fields[field] = value

				body, contentType := productForm(t, fields, nil)
				req := testutils.CreateAdminRequest(http.MethodPost, "/product/create-product", body, nil)
				req.Header.Set("Content-Type", contentType)
				rr := httptest.NewRecorder()

				productHandler.CreateProduct().ServeHTTP(rr, req)

				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Equal(t, appErrors.ErrCodeValidation, decodeResponse(t, rr, nil).Error.Code)
			})
		}
	})

	t.Run("Failure - Not a multipart form", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		req := testutils.CreateAdminRequest(http.MethodPost, "/product/create-product", strings.NewReader(`{"name":"Mug"}`), nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		productHandler.CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestProductPhoto(t *testing.T) {
	id := uuid.New()

	t.Run("Serves raw bytes with their content type", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		mockProductService.On("GetProductPhoto", mock.Anything, id).
			Return(&models.ProductPhoto{Data: []byte{0xff, 0xd8, 0xff}, ContentType: "image/jpeg"}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/product/product-photo/"+id.String(), nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		productHandler.ProductPhoto().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
		assert.Equal(t, []byte{0xff, 0xd8, 0xff}, rr.Body.Bytes())
	})

	t.Run("Not found", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		mockProductService.On("GetProductPhoto", mock.Anything, id).Return(nil, appErrors.NotFoundError("Photo not found")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/product/product-photo/"+id.String(), nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		productHandler.ProductPhoto().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestFilterProducts(t *testing.T) {
	t.Run("Empty body means no filter", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		mockProductService.On("FilterProducts", mock.Anything, &models.ProductFilterRequest{}).
			Return(&models.ProductPage{Products: []*models.Product{}, Page: 1}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/product/product-filters", nil, nil)
		rr := httptest.NewRecorder()

		productHandler.FilterProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Checked and radio are passed through", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)
		categoryID := uuid.New()

		mockProductService.On("FilterProducts", mock.Anything, &models.ProductFilterRequest{
			Checked: []uuid.UUID{categoryID},
			Radio:   []float64{0, 19.99},
			Page:    2,
		}).Return(&models.ProductPage{Products: []*models.Product{}, Total: 12, Page: 2, Pages: 2}, nil).Once()

		body := `{"checked":["` + categoryID.String() + `"],"radio":[0,19.99],"page":2}`
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/product/product-filters", strings.NewReader(body), nil)
		rr := httptest.NewRecorder()

		productHandler.FilterProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var page models.ProductPage
		decodeResponse(t, rr, &page)
		assert.Equal(t, 12, page.Total)
		assert.Equal(t, 2, page.Pages)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/product/product-filters", strings.NewReader(`{"radio":`), nil)
		rr := httptest.NewRecorder()

		productHandler.FilterProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Oversized body", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		body := `{"checked":[],"radio":[0,1],"pad":"` + strings.Repeat("x", 2<<20) + `"}`
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/product/product-filters", strings.NewReader(body), nil)
		rr := httptest.NewRecorder()

		productHandler.FilterProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockProductService.AssertNotCalled(t, "FilterProducts", mock.Anything, mock.Anything)
	})
}

func TestProductList(t *testing.T) {
	t.Run("Non-numeric page", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/product/product-list/first", nil, map[string]string{"page": "first"})
		rr := httptest.NewRecorder()

		productHandler.ProductList().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Page zero is rejected by the service", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		mockProductService.On("ListProductPage", mock.Anything, 0).Return(nil, appErrors.ValidationError("Invalid page number")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/product/product-list/0", nil, map[string]string{"page": "0"})
		rr := httptest.NewRecorder()

		productHandler.ProductList().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestProductCount(t *testing.T) {
	mockProductService := mocks.NewProductService(t)
	productHandler := handlers.NewProductHandler(mockProductService)

	mockProductService.On("CountProducts", mock.Anything).Return(13, nil).Once()

	req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/product/product-count", nil, nil)
	rr := httptest.NewRecorder()

	productHandler.ProductCount().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var count map[string]int
	decodeResponse(t, rr, &count)
	assert.Equal(t, 13, count["total"])
}

func TestProductCategory(t *testing.T) {
	mockProductService := mocks.NewProductService(t)
	productHandler := handlers.NewProductHandler(mockProductService)

	mockProductService.On("ProductsByCategory", mock.Anything, "unknown").Return(nil, appErrors.NotFoundError("Category not found")).Once()

	req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/product/product-category/unknown", nil, map[string]string{"slug": "unknown"})
	rr := httptest.NewRecorder()

	productHandler.ProductCategory().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRelatedProducts(t *testing.T) {
	t.Run("Invalid product ID", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/product/related-product/x/y", nil, map[string]string{"pid": "x", "cid": uuid.NewString()})
		rr := httptest.NewRecorder()

		productHandler.RelatedProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Success", func(t *testing.T) {
		mockProductService := mocks.NewProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)
		pid, cid := uuid.New(), uuid.New()

		mockProductService.On("RelatedProducts", mock.Anything, pid, cid).Return([]*models.Product{{ID: uuid.New()}}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/product/related-product/"+pid.String()+"/"+cid.String(), nil,
			map[string]string{"pid": pid.String(), "cid": cid.String()})
		rr := httptest.NewRecorder()

		productHandler.RelatedProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var products []models.Product
		decodeResponse(t, rr, &products)
		assert.Len(t, products, 1)
	})
}

func TestSearchProducts(t *testing.T) {
	mockProductService := mocks.NewProductService(t)
	productHandler := handlers.NewProductHandler(mockProductService)

	mockProductService.On("SearchProducts", mock.Anything, "mug").Return([]*models.Product{}, nil).Once()

	req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/product/search/mug", nil, map[string]string{"keyword": "mug"})
	rr := httptest.NewRecorder()

	productHandler.SearchProducts().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
