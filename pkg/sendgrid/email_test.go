package sendGrid_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	sendgrid_client "github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailService(t *testing.T) {
	// Arrange
	apiKey := "test-api-key"
	fromEmail := "sender@example.com"
	fromName := "Test Sender"

	// Act
	service := sendgrid_client.NewEmailService(apiKey, fromEmail, fromName)

	// Assert
	assert.NotNil(t, service)
}

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestEmailService_Send(t *testing.T) {
	apiKey := "SG.test-api-key"
	fromEmail := "orders@example.com"
	fromName := "Storefront"

	tests := []struct {
		name         string
		msg          *sendgrid_client.Message
		status       int
		expectedErr  error
		checkPayload func(t *testing.T, payload sendgridV3Payload)
	}{
		{
			name: "Success - Text and HTML",
			msg: &sendgrid_client.Message{
				To:      "buyer@example.com",
				Subject: "Your order has been placed",
				Text:    "Thanks for your order",
				HTML:    "<p>Thanks</p>",
			},
			status: http.StatusAccepted,
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1, "Expected one personalization block")
				pers := p.Personalizations[0]
				require.Len(t, pers.To, 1)
				assert.Equal(t, "buyer@example.com", pers.To[0]["email"])
				assert.Equal(t, "Your order has been placed", pers.Subject)

				assert.Equal(t, fromEmail, p.From["email"])
				assert.Equal(t, fromName, p.From["name"])

				require.Len(t, p.Content, 2, "Expected text and html blocks")
				assert.Equal(t, "text/plain", p.Content[0].Type)
				assert.Equal(t, "Thanks for your order", p.Content[0].Value)
				assert.Equal(t, "text/html", p.Content[1].Type)
			},
		},
		{
			name: "Success - Plain Text Only",
			msg: &sendgrid_client.Message{
				To:      "buyer@example.com",
				Subject: "Your order has been placed",
				Text:    "Thanks for your order",
			},
			status: http.StatusAccepted,
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Content, 1, "Expected only the text/plain block")
				assert.Equal(t, "text/plain", p.Content[0].Type)
			},
		},
		{
			name:        "Failure - Rejected (4xx)",
			msg:         &sendgrid_client.Message{To: "bad", Subject: "s", Text: "t"},
			status:      http.StatusBadRequest,
			expectedErr: sendgrid_client.ErrRejected,
		},
		{
			name:        "Failure - Unavailable (5xx)",
			msg:         &sendgrid_client.Message{To: "buyer@example.com", Subject: "s", Text: "t"},
			status:      http.StatusBadGateway,
			expectedErr: sendgrid_client.ErrUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var payload sendgridV3Payload

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))

				body, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				assert.NoError(t, json.Unmarshal(body, &payload))

				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			emailService := sendgrid_client.NewEmailService(apiKey, fromEmail, fromName, sendgrid_client.WithBaseURL(server.URL))

			// Act
			err := emailService.Send(t.Context(), tc.msg)

			// Assert
			if tc.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expectedErr)
			}

			if tc.checkPayload != nil {
				tc.checkPayload(t, payload)
			}
		})
	}

	t.Run("Failure - Network Error", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.NotFoundHandler())
		emailService := sendgrid_client.NewEmailService(apiKey, fromEmail, fromName, sendgrid_client.WithBaseURL(server.URL))
		server.Close()

		// Act
		err := emailService.Send(t.Context(), &sendgrid_client.Message{To: "buyer@example.com", Subject: "s", Text: "t"})

		// Assert
		assert.ErrorIs(t, err, sendgrid_client.ErrUnavailable)
	})
}

func TestOrderConfirmation(t *testing.T) {
	order := &models.Order{
		ID: uuid.New(),
		Products: []models.OrderItem{
			{Name: "<b>Mug</b>", Price: 10.5, Quantity: 2},
		},
		Payment: models.PaymentResult{Amount: 21, Currency: "usd"},
	}

	msg, err := sendgrid_client.OrderConfirmation("buyer@example.com", order)

	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", msg.To)
	assert.Contains(t, msg.Text, order.ID.String())
	assert.Contains(t, msg.Text, "21.00 usd")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Mug&lt;/b&gt;")
	assert.NotContains(t, msg.HTML, "<b>Mug</b>")
	assert.Contains(t, msg.HTML, "<td>2</td>")
}
