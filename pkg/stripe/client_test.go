package stripe_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	stripeClient "github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) stripeClient.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return stripeClient.NewStripeClient("sk_test_123", stripeClient.WithBaseURL(server.URL))
}

func TestCharge(t *testing.T) {
	req := stripeClient.ChargeRequest{
		AmountMinor:    3000,
		Currency:       "usd",
		PaymentMethod:  "pm_card_visa",
		IdempotencyKey: "order-key-1",
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/payment_intents", r.URL.Path)
			assert.Equal(t, "order-key-1", r.Header.Get("Idempotency-Key"))

			body, _ := io.ReadAll(r.Body)
			form, err := url.ParseQuery(string(body))
			assert.NoError(t, err)
			assert.Equal(t, "3000", form.Get("amount"))
			assert.Equal(t, "pm_card_visa", form.Get("payment_method"))
			assert.Equal(t, "true", form.Get("confirm"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","status":"succeeded","amount":3000,"currency":"usd"}`))
		})

		// Act
		charge, err := client.Charge(t.Context(), req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "pi_123", charge.TransactionID)
		assert.Equal(t, "succeeded", charge.Status)
		assert.Equal(t, int64(3000), charge.AmountMinor)
	})

	t.Run("Card declined", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
		})

		charge, err := client.Charge(t.Context(), req)

		assert.Nil(t, charge)
		require.ErrorIs(t, err, stripeClient.ErrDeclined)
		assert.Contains(t, err.Error(), "Your card was declined.")
	})

	t.Run("Requires action is not a success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"pi_456","object":"payment_intent","status":"requires_action","amount":3000,"currency":"usd"}`))
		})

		_, err := client.Charge(t.Context(), req)

		require.ErrorIs(t, err, stripeClient.ErrDeclined)
	})

	t.Run("Gateway error is transient", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"Something went wrong"}}`))
		})

		_, err := client.Charge(t.Context(), req)

		require.ErrorIs(t, err, stripeClient.ErrUnavailable)
	})

	t.Run("Timeout is transient", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})

		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()

		_, err := client.Charge(ctx, req)

		require.ErrorIs(t, err, stripeClient.ErrUnavailable)
	})
}

func TestClientToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/setup_intents", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"seti_1","object":"setup_intent","client_secret":"seti_1_secret_abc"}`))
	})

	token, err := client.ClientToken(t.Context())

	require.NoError(t, err)
	assert.Equal(t, "seti_1_secret_abc", token)
}

func TestPing(t *testing.T) {
	t.Run("Reachable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/balance", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"object":"balance","available":[]}`))
		})

		assert.NoError(t, client.Ping(t.Context()))
	})

	t.Run("Unauthorized", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key"}}`))
		})

		err := client.Ping(t.Context())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to stripe")
	})
}
