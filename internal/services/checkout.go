package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"math"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	sendGrid "github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	chargeRetries  = 1
	persistRetries = 2
	emailTimeout   = 5 * time.Second
)

// maxOrderTotal is the largest amount a NUMERIC(12,2) column holds.
var maxOrderTotal = decimal.RequireFromString("9999999999.99")

type CheckoutService interface {
	ClientToken(ctx context.Context) (string, error)
	Checkout(ctx context.Context, claims *models.Claims, req *models.CheckoutRequest) (*models.Order, error)
}

type checkoutService struct {
	orders  repository.OrderRepository
	gateway stripe.Client
	mailer  sendGrid.EmailService
	limiter cache.RateLimiter
	cfg     config.Stripe
}

// NewCheckoutService wires the checkout saga. mailer and limiter may be nil,
// which turns off confirmation emails and attempt limiting.
func NewCheckoutService(orders repository.OrderRepository, gateway stripe.Client, mailer sendGrid.EmailService, limiter cache.RateLimiter, cfg config.Stripe) CheckoutService {
	return &checkoutService{
		orders:  orders,
		gateway: gateway,
		mailer:  mailer,
		limiter: limiter,
		cfg:     cfg,
	}
}

func (s *checkoutService) ClientToken(ctx context.Context) (string, error) {

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	token, err := s.gateway.ClientToken(callCtx)
	if err != nil {
		if stdErrors.Is(err, stripe.ErrUnavailable) {
			return "", errors.GatewayUnavailableError("Payment gateway is unavailable").WithError(err)
		}

		return "", errors.ThirdPartyError("Failed to generate client token").WithError(err)
	}

	return token, nil
}

/*
Checkout validates the cart, charges the buyer and records the order.

The charge gets a per-attempt timeout and one retry on transient gateway
errors; both attempts share an idempotency key so the buyer is charged at
most once. Once money has moved the order write is retried on a context
that outlives the request, keyed by the gateway transaction id. If it still
fails the caller gets a PARTIAL_FAILURE carrying the transaction id.
*/
func (s *checkoutService) Checkout(ctx context.Context, claims *models.Claims, req *models.CheckoutRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	if len(req.Cart) == 0 {
		metrics.RecordCheckout(metrics.CheckoutRejected)
		return nil, errors.ValidationError("cart is required")
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Cart))

	for _, item := range req.Cart {
		price := item.Price.Amount
		if !item.Price.Valid || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			metrics.RecordCheckout(metrics.CheckoutRejected)
			return nil, errors.ValidationError("invalid price")
		}

		if item.Quantity != nil && *item.Quantity <= 0 {
			metrics.RecordCheckout(metrics.CheckoutRejected)
			return nil, errors.ValidationError("invalid quantity")
		}

		total = total.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(item.Units()))))

		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     price,
			Quantity:  item.Units(),
		})
	}

	if total.GreaterThan(maxOrderTotal) {
		metrics.RecordCheckout(metrics.CheckoutRejected)
		return nil, errors.ValidationError("invalid price")
	}

	if claims == nil || claims.UserID == uuid.Nil {
		logger.Error("Checkout reached without a buyer identity")
		return nil, errors.InternalError("Buyer identity is missing")
	}

	if err := s.checkAttempts(ctx, claims.UserID); err != nil {
		metrics.RecordCheckout(metrics.CheckoutLimited)
		return nil, err
	}

	orderID := uuid.New()

	charge, err := s.charge(ctx, stripe.ChargeRequest{
		AmountMinor:    total.Shift(2).Round(0).IntPart(),
		Currency:       s.cfg.Currency,
		PaymentMethod:  req.Nonce,
		Description:    fmt.Sprintf("Order %s", orderID),
		IdempotencyKey: "checkout-" + orderID.String(),
	})
	if err != nil {
		logger.Warn("Charge failed", "order_id", orderID, "error", err)

		switch {
		case stdErrors.Is(err, stripe.ErrDeclined):
			metrics.RecordCheckout(metrics.CheckoutDeclined)
			return nil, errors.PaymentDeclinedError("Payment was declined").WithError(err)
		case stdErrors.Is(err, stripe.ErrUnavailable), stdErrors.Is(err, context.DeadlineExceeded):
			metrics.RecordCheckout(metrics.CheckoutGatewayDown)
			return nil, errors.GatewayUnavailableError("Payment gateway is unavailable, please retry").WithError(err)
		default:
			metrics.RecordCheckout(metrics.CheckoutGatewayDown)
			return nil, errors.ThirdPartyError("Payment failed").WithError(err)
		}
	}

	order := &models.Order{
		ID:       orderID,
		Products: items,
		Payment: models.PaymentResult{
			TransactionID: charge.TransactionID,
			Status:        charge.Status,
			Amount:        decimal.New(charge.AmountMinor, -2).InexactFloat64(),
			Currency:      charge.Currency,
			Success:       true,
		},
		BuyerID:     claims.UserID,
		Status:      models.OrderStatusPending,
		TotalAmount: total.InexactFloat64(),
	}

	if err := s.persist(context.WithoutCancel(ctx), order); err != nil {
		logger.Error("Charged but failed to record the order",
			"order_id", orderID, "transaction_id", charge.TransactionID, "error", err)
		metrics.RecordCheckout(metrics.CheckoutPartial)

		return nil, errors.PartialFailureError("Payment was taken but the order could not be recorded").
			WithDetail("transaction " + charge.TransactionID).
			WithError(err)
	}

	logger.Info("Order placed", "order_id", order.ID, "transaction_id", charge.TransactionID, "total", total.StringFixed(2))
	metrics.RecordCheckout(metrics.CheckoutSucceeded)

	s.sendConfirmation(ctx, claims.Email, order)

	return order, nil
}

func (s *checkoutService) checkAttempts(ctx context.Context, buyerID uuid.UUID) error {

	if s.limiter == nil {
		return nil
	}

	allowed, retryAfter, err := s.limiter.Allow(ctx, cache.Key(cache.CheckoutKeyPrefix, buyerID.String()))
	if err != nil {
		// fail open
		middleware.LoggerFromContext(ctx).Warn("Checkout limiter unavailable", "error", err)
		return nil
	}

	if !allowed {
		return errors.TooManyRequestsError("Too many checkout attempts").
			WithDetail(fmt.Sprintf("retry after %s", retryAfter.Round(time.Second)))
	}

	return nil
}

func (s *checkoutService) charge(ctx context.Context, req stripe.ChargeRequest) (*stripe.Charge, error) {

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(s.cfg.RetryBackoff), chargeRetries), ctx)

	return backoff.RetryWithData(func() (*stripe.Charge, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()

		charge, err := s.gateway.Charge(attemptCtx, req)
		if err == nil {
			return charge, nil
		}

		if stdErrors.Is(err, stripe.ErrUnavailable) || stdErrors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		return nil, backoff.Permanent(err)
	}, policy)
}

func (s *checkoutService) persist(ctx context.Context, order *models.Order) error {

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(s.cfg.RetryBackoff), persistRetries), ctx)

	return backoff.Retry(func() error {
		return s.orders.CreateOrder(ctx, order)
	}, policy)
}

// sendConfirmation is best effort; the order is already recorded.
func (s *checkoutService) sendConfirmation(ctx context.Context, to string, order *models.Order) {

	if s.mailer == nil || to == "" {
		return
	}

	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
	defer cancel()

	logger := middleware.LoggerFromContext(ctx)

	email, err := sendGrid.OrderConfirmation(to, order)
	if err != nil {
		logger.Warn("Failed to render order confirmation", "order_id", order.ID, "error", err)
		return
	}

	if err := s.mailer.Send(mailCtx, email); err != nil {
		logger.Warn("Failed to send order confirmation", "order_id", order.ID, "error", err)
	}
}
