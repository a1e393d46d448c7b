package models_test

import (
	"encoding/json"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutRequestDecoding(t *testing.T) {
	t.Run("Numeric prices and quantities", func(t *testing.T) {
		var req models.CheckoutRequest
		require.NoError(t, json.Unmarshal([]byte(`{"nonce":"n","cart":[{"name":"Mug","price":10.5,"quantity":3},{"name":"Plate","price":4}]}`), &req))

		require.Len(t, req.Cart, 2)
		assert.True(t, req.Cart[0].Price.Valid)
		assert.Equal(t, 10.5, req.Cart[0].Price.Amount)
		assert.Equal(t, 3, req.Cart[0].Units())
		assert.Equal(t, 1, req.Cart[1].Units(), "quantity defaults to one")
	})

	t.Run("Explicit zero quantity is kept", func(t *testing.T) {
		var req models.CheckoutRequest
		require.NoError(t, json.Unmarshal([]byte(`{"cart":[{"price":50,"quantity":0}]}`), &req))

		require.Len(t, req.Cart, 1)
		require.NotNil(t, req.Cart[0].Quantity)
		assert.Equal(t, 0, *req.Cart[0].Quantity)
		assert.Equal(t, 0, req.Cart[0].Units())
	})

	t.Run("Non-numeric price is kept as invalid", func(t *testing.T) {
		var req models.CheckoutRequest
		require.NoError(t, json.Unmarshal([]byte(`{"cart":[{"name":"Mug","price":"ten"},{"name":"Cup","price":null}]}`), &req))

		require.Len(t, req.Cart, 2)
		assert.False(t, req.Cart[0].Price.Valid)
		assert.False(t, req.Cart[1].Price.Valid)
	})

	t.Run("Cart that is not a list", func(t *testing.T) {
		for _, raw := range []string{`{"cart":{"id":"x"}}`, `{"cart":"mug"}`, `{"cart":null}`, `{}`} {
			var req models.CheckoutRequest
			require.NoError(t, json.Unmarshal([]byte(raw), &req), raw)
			assert.Nil(t, req.Cart, raw)
		}
	})

	t.Run("Empty list stays empty", func(t *testing.T) {
		var req models.CheckoutRequest
		require.NoError(t, json.Unmarshal([]byte(`{"cart":[]}`), &req))

		assert.NotNil(t, req.Cart)
		assert.Empty(t, req.Cart)
	})
}

func TestPriceMarshal(t *testing.T) {
	raw, err := json.Marshal(models.CartItem{Name: "Mug", Price: models.Price{Amount: 2.5, Valid: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"00000000-0000-0000-0000-000000000000","name":"Mug","price":2.5}`, string(raw))

	raw, err = json.Marshal(models.Price{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 0, models.Offset(1))
	assert.Equal(t, 12, models.Offset(3))
	assert.Equal(t, 0, models.PageCount(0))
	assert.Equal(t, 1, models.PageCount(6))
	assert.Equal(t, 2, models.PageCount(7))
}

func TestOrderStatusValid(t *testing.T) {
	for _, status := range models.OrderStatuses {
		assert.True(t, status.Valid(), status)
	}

	assert.False(t, models.OrderStatus("Lost").Valid())
	assert.False(t, models.OrderStatus("pending").Valid())
}
