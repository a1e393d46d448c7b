package stripe

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

var (
	// ErrDeclined means the gateway refused the payment method. Retrying will
	// not help.
	ErrDeclined = errors.New("payment declined")
	// ErrUnavailable covers network failures, timeouts and gateway 5xx/429.
	// The charge may be retried with the same idempotency key.
	ErrUnavailable = errors.New("payment gateway unavailable")
)

type ChargeRequest struct {
	AmountMinor    int64
	Currency       string
	PaymentMethod  string
	Description    string
	IdempotencyKey string
}

type Charge struct {
	TransactionID string
	Status        string
	AmountMinor   int64
	Currency      string
}

// Client is the part of the gateway the checkout needs.
type Client interface {
	ClientToken(ctx context.Context) (string, error)
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
	Ping(ctx context.Context) error
}

type stripeClient struct {
	api *client.API
}

type Option func(*stripe.BackendConfig)

// WithBaseURL points the client at another API host, such as a test server.
func WithBaseURL(url string) Option {
	return func(c *stripe.BackendConfig) {
		c.URL = stripe.String(url)
	}
}

func NewStripeClient(apiKey string, opts ...Option) Client {
	cfg := &stripe.BackendConfig{
		// retries are owned by the checkout so they share one idempotency key and budget
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	api := &client.API{}
	api.Init(apiKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	})

	return &stripeClient{api: api}
}

// ClientToken returns the client secret of a fresh card SetupIntent, which the
// browser uses to tokenize a card into a payment method id (the nonce).
func (s *stripeClient) ClientToken(ctx context.Context) (string, error) {
	params := &stripe.SetupIntentParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := s.api.SetupIntents.New(params)
	if err != nil {
		return "", classify(err)
	}

	return intent.ClientSecret, nil
}

// Charge confirms and captures in one call.
func (s *stripeClient) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.AmountMinor),
		Currency:           stripe.String(req.Currency),
		PaymentMethod:      stripe.String(req.PaymentMethod),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
	}

	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}

	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, classify(err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: payment intent %s is %s", ErrDeclined, intent.ID, intent.Status)
	}

	return &Charge{
		TransactionID: intent.ID,
		Status:        string(intent.Status),
		AmountMinor:   intent.Amount,
		Currency:      string(intent.Currency),
	}, nil
}

func (s *stripeClient) Ping(ctx context.Context) error {
	params := &stripe.BalanceParams{}
	params.Context = ctx

	if _, err := s.api.Balance.Get(params); err != nil {
		return fmt.Errorf("failed to connect to stripe: %w", err)
	}

	return nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	switch {
	case stripeErr.Type == stripe.ErrorTypeCard:
		return fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
	case stripeErr.HTTPStatusCode >= 500, stripeErr.HTTPStatusCode == 429, stripeErr.HTTPStatusCode == 0:
		return fmt.Errorf("%w: %s", ErrUnavailable, stripeErr.Msg)
	}

	return fmt.Errorf("stripe rejected the request: %w", err)
}
