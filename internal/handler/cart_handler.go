package handler

import (
	"encoding/json"
	"net/http"

	"shopcore/internal/auth"
	"shopcore/internal/model"
	"shopcore/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// CartHandler serves the canonical cart state over HTTP. The session comes
// from the bearer-auth middleware; every route here requires one.
type CartHandler struct {
	cart   store.CartSource
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart store.CartSource, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cart:   cart,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// CartItemRequest is the add/update payload for one cart line.
type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFrom(r.Context())
	if !session.Authenticated() {
		writeDomainError(w, model.ErrUnauthenticated, h.logger)
		return
	}

	cart, err := h.cart.GetCart(r.Context(), session.UserID())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFrom(r.Context())
	if !session.Authenticated() {
		writeDomainError(w, model.ErrUnauthenticated, h.logger)
		return
	}

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "productId is required", h.logger)
		return
	}

	if err := h.cart.AddItem(r.Context(), session.UserID(), req.ProductID, req.Quantity); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, r, session.UserID(), http.StatusCreated)
}

// UpdateItem handles PUT /api/cart/items/{productId}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFrom(r.Context())
	if !session.Authenticated() {
		writeDomainError(w, model.ErrUnauthenticated, h.logger)
		return
	}

	productID := mux.Vars(r)["productId"]

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.cart.UpdateItem(r.Context(), session.UserID(), productID, req.Quantity); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, r, session.UserID(), http.StatusOK)
}

// RemoveItem handles DELETE /api/cart/items/{productId}. Removing an absent
// line succeeds.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFrom(r.Context())
	if !session.Authenticated() {
		writeDomainError(w, model.ErrUnauthenticated, h.logger)
		return
	}

	productID := mux.Vars(r)["productId"]

	if err := h.cart.RemoveItem(r.Context(), session.UserID(), productID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, r, session.UserID(), http.StatusOK)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFrom(r.Context())
	if !session.Authenticated() {
		writeDomainError(w, model.ErrUnauthenticated, h.logger)
		return
	}

	if err := h.cart.Clear(r.Context(), session.UserID()); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.respondWithCart(w, r, session.UserID(), http.StatusOK)
}

// respondWithCart returns the canonical cart after a mutation, so clients
// get the read-back state in the same round trip.
func (h *CartHandler) respondWithCart(w http.ResponseWriter, r *http.Request, userID string, status int) {
	cart, err := h.cart.GetCart(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, status, cart)
}
