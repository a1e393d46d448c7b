package handlers_test

import (
	"net/http"
	"net/http/httptest"
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
)

func TestListOrders(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Buyer's own orders", func(t *testing.T) {
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		mockOrderService.On("ListBuyerOrders", mock.Anything, userID).
			Return([]*models.Order{{ID: uuid.New(), BuyerID: userID, Status: models.OrderStatusShipped}}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/order/orders", nil, userID, nil)
		rr := httptest.NewRecorder()

		orderHandler.ListOrders().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var orders []models.Order
		decodeResponse(t, rr, &orders)
		assert.Len(t, orders, 1)
		assert.Equal(t, models.OrderStatusShipped, orders[0].Status)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/order/orders", nil, nil)
		rr := httptest.NewRecorder()

		orderHandler.ListOrders().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestListAllOrders(t *testing.T) {
	mockOrderService := mocks.NewOrderService(t)
	orderHandler := handlers.NewOrderHandler(mockOrderService)

	mockOrderService.On("ListAllOrders", mock.Anything).Return([]*models.Order{}, nil).Once()

	req := testutils.CreateAdminRequest(http.MethodGet, "/order/all-orders", nil, nil)
	rr := httptest.NewRecorder()

	orderHandler.ListAllOrders().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	id := uuid.New()
	pathParams := map[string]string{"id": id.String()}

	t.Run("Success", func(t *testing.T) {
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		mockOrderService.On("UpdateOrderStatus", mock.Anything, id, models.OrderStatusCanceled).
			Return(&models.Order{ID: id, Status: models.OrderStatusCanceled}, nil).Once()

		req := testutils.CreateAdminRequest(http.MethodPut, "/order/order-status/"+id.String(), strings.NewReader(`{"status":"Canceled"}`), pathParams)
		rr := httptest.NewRecorder()

		orderHandler.UpdateOrderStatus().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var order models.Order
		decodeResponse(t, rr, &order)
		assert.Equal(t, models.OrderStatusCanceled, order.Status)
	})

	t.Run("Failure - Unknown status", func(t *testing.T) {
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		req := testutils.CreateAdminRequest(http.MethodPut, "/order/order-status/"+id.String(), strings.NewReader(`{"status":"Lost"}`), pathParams)
		rr := httptest.NewRecorder()

		orderHandler.UpdateOrderStatus().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeValidation, decodeResponse(t, rr, nil).Error.Code)
		mockOrderService.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Order not found", func(t *testing.T) {
		mockOrderService := mocks.NewOrderService(t)
		orderHandler := handlers.NewOrderHandler(mockOrderService)

		mockOrderService.On("UpdateOrderStatus", mock.Anything, id, models.OrderStatusShipped).
			Return(nil, appErrors.NotFoundError("Order not found")).Once()

		req := testutils.CreateAdminRequest(http.MethodPut, "/order/order-status/"+id.String(), strings.NewReader(`{"status":"Shipped"}`), pathParams)
		rr := httptest.NewRecorder()

		orderHandler.UpdateOrderStatus().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
