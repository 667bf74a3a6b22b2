package handler

import (
	"encoding/json"
	"net/http"

	"shopcore/internal/auth"
	"shopcore/internal/model"
	"shopcore/internal/promo"
	"shopcore/internal/store"

	"github.com/rs/zerolog"
)

// CheckoutHandler prices a selection of cart lines for the checkout
// handoff, re-validating availability at submit time.
type CheckoutHandler struct {
	cart      store.CartSource
	validator promo.Validator
	shipping  store.ShippingQuote
	logger    zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler. validator may be nil
// when promo codes are disabled; shipping may be nil for free shipping.
func NewCheckoutHandler(cart store.CartSource, validator promo.Validator, shipping store.ShippingQuote, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		cart:      cart,
		validator: validator,
		shipping:  shipping,
		logger:    logger.With().Str("handler", "checkout").Logger(),
	}
}

// QuoteRequest selects the cart lines to price, with an optional promo code.
type QuoteRequest struct {
	Selected  []string `json:"selected"`
	PromoCode string   `json:"promoCode,omitempty"`
}

// QuoteResponse is the priced checkout handoff.
type QuoteResponse struct {
	Totals      store.Totals            `json:"totals"`
	DiscountPct int                     `json:"discountPct"`
	Warnings    []store.LowStockWarning `json:"warnings,omitempty"`
}

// Quote handles POST /api/checkout/quote.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFrom(r.Context())
	if !session.Authenticated() {
		writeDomainError(w, model.ErrUnauthenticated, h.logger)
		return
	}

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if len(req.Selected) == 0 {
		writeDomainError(w, model.ErrEmptySelection, h.logger)
		return
	}

	cart, err := h.cart.GetCart(r.Context(), session.UserID())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	// Every requested line must still exist and still be purchasable.
	for _, id := range req.Selected {
		line := cart.Line(id)
		if line == nil || !line.Available() {
			writeDomainError(w, model.ErrUnavailableItemSelected, h.logger)
			return
		}
	}

	checkout := store.NewCheckout(h.logger)
	checkout.Apply(cart)
	desired := make(map[string]bool, len(req.Selected))
	for _, id := range req.Selected {
		desired[id] = true
	}
	for _, line := range cart.Lines {
		if checkout.IsSelected(line.ProductID) != desired[line.ProductID] {
			checkout.Toggle(line.ProductID)
		}
	}

	warnings, err := checkout.ValidateForCheckout()
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	discountPct := 0
	if req.PromoCode != "" {
		if h.validator == nil {
			writeDomainError(w, model.ErrInvalidPromoCode, h.logger)
			return
		}
		discount, err := h.validator.Validate(r.Context(), req.PromoCode)
		if err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
		discountPct = discount.Pct
	}

	writeJSON(w, http.StatusOK, QuoteResponse{
		Totals:      checkout.ComputeTotals(h.shipping, discountPct),
		DiscountPct: discountPct,
		Warnings:    warnings,
	})
}
