package handler

import (
	"net/http"
	"strconv"

	"shopcore/internal/model"
	"shopcore/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ProductHandler serves catalogue reads.
type ProductHandler struct {
	catalog store.CatalogSource
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog store.CatalogSource, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// ListResponse is the catalogue listing payload.
type ListResponse struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

// List handles GET /api/products. Query parameters: category, search, limit,
// offset. Without a limit the full filtered set is returned, which is what
// the client-side pagination strategy expects.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.CatalogFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	limit := parseIntParam(r, "limit", 0)
	offset := parseIntParam(r, "offset", 0)
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.catalog.ListProducts(r.Context(), filter, limit, offset)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if items == nil {
		items = []model.Product{}
	}

	writeJSON(w, http.StatusOK, ListResponse{Items: items, Total: total})
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// parseIntParam reads an integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultValue int) int {
	if value := r.URL.Query().Get(name); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
