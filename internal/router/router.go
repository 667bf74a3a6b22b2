package router

import (
	"net/http"

	"shopcore/internal/auth"
	"shopcore/internal/handler"
	"shopcore/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	reviewHandler *handler.ReviewHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	issuer *auth.TokenIssuer,
	logger zerolog.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check endpoint (no authentication required)
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/products", productHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", productHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}/reviews", reviewHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}/reviews", reviewHandler.Create).Methods(http.MethodPost)

	api.HandleFunc("/cart", cartHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/cart", cartHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", cartHandler.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{productId}", cartHandler.UpdateItem).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{productId}", cartHandler.RemoveItem).Methods(http.MethodDelete)

	api.HandleFunc("/checkout/quote", checkoutHandler.Quote).Methods(http.MethodPost)

	// Apply middleware in order: Recovery -> Logging -> CORS -> BearerAuth
	var h http.Handler = r
	h = middleware.BearerAuth(issuer, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
