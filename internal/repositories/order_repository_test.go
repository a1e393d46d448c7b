package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	orderColumns     = []string{"id", "buyer_id", "status", "payment", "total_amount", "created_at", "updated_at"}
	orderItemColumns = []string{"order_id", "product_id", "name", "price", "quantity"}
)

const paymentJSON = `{"transaction_id":"pi_123","status":"succeeded","amount":30,"currency":"usd","success":true}`

func setupOrderRepoTest(t *testing.T) (repository.OrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewOrderRepo(db)
	require.NotNil(t, repo, "NewOrderRepo should return a non-nil repository")

	return repo, mock
}

func newTestOrder() *models.Order {
	return &models.Order{
		ID:      uuid.New(),
		BuyerID: uuid.New(),
		Status:  models.OrderStatusPending,
		Products: []models.OrderItem{
			{ProductID: uuid.New(), Name: "Mug", Price: 10, Quantity: 2},
			{ProductID: uuid.New(), Name: "Plate", Price: 10, Quantity: 1},
		},
		Payment: models.PaymentResult{
			TransactionID: "pi_123",
			Status:        "succeeded",
			Amount:        30,
			Currency:      "usd",
			Success:       true,
		},
		TotalAmount: 30,
	}
}

func TestCreateOrder(t *testing.T) {
	insertOrderSQL := regexp.QuoteMeta(`INSERT INTO orders (id, buyer_id, status, payment, payment_transaction_id, total_amount, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) ON CONFLICT (payment_transaction_id) DO NOTHING RETURNING created_at, updated_at`)
	insertItemSQL := regexp.QuoteMeta(`INSERT INTO order_items (order_id, position, product_id, name, price, quantity) VALUES ($1, $2, $3, $4, $5, $6)`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderRepoTest(t)
		order := newTestOrder()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(insertOrderSQL).
			WithArgs(order.ID, order.BuyerID, order.Status, sqlmock.AnyArg(), "pi_123", 30.0).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		for i, item := range order.Products {
			mock.ExpectExec(insertItemSQL).
				WithArgs(order.ID, i, item.ProductID, item.Name, item.Price, item.Quantity).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}

		mock.ExpectCommit()

		// Act
		err := repo.CreateOrder(t.Context(), order)

		// Assert
		require.NoError(t, err)
		assert.WithinDuration(t, now, order.CreatedAt, time.Second)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already recorded for the transaction", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderRepoTest(t)
		order := newTestOrder()
		storedID := uuid.New()
		productID := uuid.New()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(insertOrderSQL).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE payment_transaction_id = $1`)).
			WithArgs("pi_123").
			WillReturnRows(sqlmock.NewRows(orderColumns).
				AddRow(storedID, order.BuyerID, "Pending", []byte(paymentJSON), 30.0, now, now))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items WHERE order_id = ANY($1::uuid[])`)).
			WillReturnRows(sqlmock.NewRows(orderItemColumns).
				AddRow(storedID, productID, "Mug", 10.0, 3))
		mock.ExpectRollback()

		// Act
		err := repo.CreateOrder(t.Context(), order)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, storedID, order.ID, "the stored order replaces the new one")
		require.Len(t, order.Products, 1)
		assert.Equal(t, productID, order.Products[0].ProductID)
		assert.Equal(t, "pi_123", order.Payment.TransactionID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Item insert fails rolls back", func(t *testing.T) {
		// Arrange
		repo, mock := setupOrderRepoTest(t)
		order := newTestOrder()
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(insertOrderSQL).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(insertItemSQL).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		// Act
		err := repo.CreateOrder(t.Context(), order)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert an order item")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin fails", func(t *testing.T) {
		repo, mock := setupOrderRepoTest(t)

		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := repo.CreateOrder(t.Context(), newTestOrder())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetOrderByID(t *testing.T) {
	repo, mock := setupOrderRepoTest(t)
	ctx := t.Context()
	id := uuid.New()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(orderColumns).
				AddRow(id, uuid.New(), "Shipped", []byte(paymentJSON), 30.0, now, now))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
			WillReturnRows(sqlmock.NewRows(orderItemColumns).
				AddRow(id, uuid.New(), "Mug", 10.0, 2).
				AddRow(id, uuid.New(), "Plate", 10.0, 1))

		order, err := repo.GetOrderByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusShipped, order.Status)
		assert.Len(t, order.Products, 2)
		assert.Equal(t, "Mug", order.Products[0].Name)
		assert.True(t, order.Payment.Success)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		order, err := repo.GetOrderByID(ctx, id)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListOrders(t *testing.T) {
	repo, mock := setupOrderRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	t.Run("By buyer groups items per order", func(t *testing.T) {
		// Arrange
		buyer := uuid.New()
		first, second := uuid.New(), uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`)).
			WithArgs(buyer).
			WillReturnRows(sqlmock.NewRows(orderColumns).
				AddRow(first, buyer, "Pending", []byte(paymentJSON), 30.0, now, now).
				AddRow(second, buyer, "Delivered", []byte(paymentJSON), 30.0, now.Add(-time.Hour), now))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items`)).
			WillReturnRows(sqlmock.NewRows(orderItemColumns).
				AddRow(first, uuid.New(), "Mug", 10.0, 3).
				AddRow(second, uuid.New(), "Plate", 15.0, 2))

		// Act
		orders, err := repo.ListOrdersByBuyer(ctx, buyer)

		// Assert
		require.NoError(t, err)
		require.Len(t, orders, 2)
		require.Len(t, orders[0].Products, 1)
		assert.Equal(t, "Mug", orders[0].Products[0].Name)
		require.Len(t, orders[1].Products, 1)
		assert.Equal(t, "Plate", orders[1].Products[0].Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("All orders empty skips the item query", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders ORDER BY created_at DESC`)).
			WillReturnRows(sqlmock.NewRows(orderColumns))

		orders, err := repo.ListOrders(ctx)

		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	repo, mock := setupOrderRepoTest(t)
	ctx := t.Context()
	id := uuid.New()

	updateSQL := regexp.QuoteMeta(`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(updateSQL).
			WithArgs(models.OrderStatusShipped, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateOrderStatus(ctx, id, models.OrderStatusShipped))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectExec(updateSQL).
			WithArgs(models.OrderStatusCanceled, id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateOrderStatus(ctx, id, models.OrderStatusCanceled), sql.ErrNoRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(updateSQL).WillReturnError(errors.New("timeout"))

		err := repo.UpdateOrderStatus(ctx, id, models.OrderStatusCanceled)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update order status")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
