package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error)
	ListOrders(ctx context.Context) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, buyer_id, status, payment, total_amount, created_at, updated_at`

/*
CreateOrder writes the order and its items in one transaction.

It is idempotent on the payment transaction id: if an order for the same
charge already exists, nothing is written and order is overwritten with the
stored one. This makes it safe to retry after an ambiguous failure.
*/
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	payment, err := json.Marshal(order.Payment)
	if err != nil {
		return fmt.Errorf("failed to marshal payment: %w", err)
	}

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, buyer_id, status, payment, payment_transaction_id, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (payment_transaction_id) DO NOTHING
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(dbCtx, query, order.ID, order.BuyerID, order.Status, payment, order.Payment.TransactionID, order.TotalAmount).
		Scan(&order.CreatedAt, &order.UpdatedAt)

	if err == sql.ErrNoRows {
		// already recorded by an earlier attempt
		existing, err := r.getOrderByTransaction(dbCtx, tx, order.Payment.TransactionID)
		if err != nil {
			return err
		}

		*order = *existing

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, product_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i, item := range order.Products {
		if _, err := tx.ExecContext(dbCtx, itemQuery, order.ID, i, item.ProductID, item.Name, item.Price, item.Quantity); err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func (r *orderRepository) getOrderByTransaction(ctx context.Context, tx *sql.Tx, transactionID string) (*models.Order, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_transaction_id = $1`, transactionID)

	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get the recorded order: %w", err)
	}

	items, err := loadItems(ctx, tx, []*models.Order{order})
	if err != nil {
		return nil, err
	}

	order.Products = items[order.ID]

	return order, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	items, err := loadItems(dbCtx, r.DB, []*models.Order{order})
	if err != nil {
		return nil, err
	}

	order.Products = items[order.ID]

	return order, nil
}

func (r *orderRepository) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`, buyerID)
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}

	items, err := loadItems(dbCtx, r.DB, orders)
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		order.Products = items[order.ID]
	}

	return orders, nil
}

// UpdateOrderStatus returns sql.ErrNoRows when the order does not exist.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	order := &models.Order{}

	var payment []byte

	if err := row.Scan(&order.ID, &order.BuyerID, &order.Status, &payment, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payment, &order.Payment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment: %w", err)
	}

	return order, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// loadItems fetches the items of every order in one round trip.
func loadItems(ctx context.Context, q queryer, orders []*models.Order) (map[uuid.UUID][]models.OrderItem, error) {
	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.ID.String()
	}

	query := `
		SELECT order_id, product_id, name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`

	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]models.OrderItem, len(orders))

	for rows.Next() {
		var (
			orderID uuid.UUID
			item    models.OrderItem
		)

		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		items[orderID] = append(items[orderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
