package service

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
)

type OrderService interface {
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error)
	ListAllOrders(ctx context.Context) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error) {

	orders, err := s.orders.ListOrdersByBuyer(ctx, buyerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, nil
}

func (s *orderService) ListAllOrders(ctx context.Context) ([]*models.Order, error) {

	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, nil
}

// UpdateOrderStatus accepts any known status regardless of the current one.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	if !status.Valid() {
		return nil, errors.ValidationError("Invalid order status")
	}

	if err := s.orders.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, mapRepoError(err, "Order not found", "Failed to update order status")
	}

	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Order not found", "Failed to get order")
	}

	return order, nil
}
