package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// ClientToken godoc
//	@Summary		Get a payment client token
//	@Description	Returns the token the browser needs to tokenize a card into a payment nonce.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	models.ClientTokenResponse	"Client token"
//	@Failure		500	{object}	response.ErrorResponse		"Payment gateway error"
//	@Failure		503	{object}	response.ErrorResponse		"Payment gateway unavailable"
//	@Router			/product/braintree/token [get]
func (h *CheckoutHandler) ClientToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		token, err := h.checkoutService.ClientToken(r.Context())
		if err != nil {
			logger.Error("Failed to generate client token", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.ClientTokenResponse{ClientToken: token})
	}
}

// Payment godoc
//	@Summary		Check out the cart
//	@Description	Charges the payment nonce for the cart total and records a pending order. Requires authentication.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body		models.CheckoutRequest	true	"Payment nonce and cart"
//	@Success		200			{object}	models.CheckoutResponse	"Order placed"
//	@Failure		400			{object}	response.ErrorResponse	"Missing cart or invalid price"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		402			{object}	response.ErrorResponse	"Payment declined"
//	@Failure		429			{object}	response.ErrorResponse	"Too many checkout attempts"
//	@Failure		500			{object}	response.ErrorResponse	"Charged but the order was not recorded"
//	@Failure		503			{object}	response.ErrorResponse	"Payment gateway unavailable"
//	@Security		BearerAuth
//	@Router			/product/braintree/payment [post]
func (h *CheckoutHandler) Payment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		// a missing identity is reported by the checkout itself
		claims, _ := middleware.ClaimsFromContext(r.Context())
		if claims != nil {
			logger = logger.With(slog.String("userID", claims.UserID.String()))
		}

		var req models.CheckoutRequest
		if err := utils.DecodeJSON(w, r, &req); err != nil {
			logger.Warn("Invalid checkout input", slog.Any("error", err))
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		order, err := h.checkoutService.Checkout(r.Context(), claims, &req)
		if err != nil {
			logger.Error("Checkout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Checkout completed", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusOK, models.CheckoutResponse{OK: true, Order: order})
	}
}
