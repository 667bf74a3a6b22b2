package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"shopcore/internal/model"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ReviewStore is the backing review storage. Satisfied by
// repository.ReviewRepository.
type ReviewStore interface {
	GetReviews(ctx context.Context, productID string) ([]model.Review, error)
	AddReview(ctx context.Context, review model.Review) (string, error)
}

// ReviewHandler serves per-product reviews.
type ReviewHandler struct {
	reviews ReviewStore
	logger  zerolog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews ReviewStore, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With().Str("handler", "review").Logger(),
	}
}

// ReviewsResponse is the review listing payload.
type ReviewsResponse struct {
	ProductID     string         `json:"productId"`
	Reviews       []model.Review `json:"reviews"`
	AverageRating float64        `json:"averageRating"`
}

// List handles GET /api/products/{id}/reviews.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	reviews, err := h.reviews.GetReviews(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}

	writeJSON(w, http.StatusOK, ReviewsResponse{
		ProductID:     productID,
		Reviews:       reviews,
		AverageRating: model.AverageRating(reviews),
	})
}

// ReviewRequest is the create-review payload.
type ReviewRequest struct {
	Author  string `json:"author"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create handles POST /api/products/{id}/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "rating must be between 1 and 5", h.logger)
		return
	}

	id, err := h.reviews.AddReview(r.Context(), model.Review{
		ProductID: productID,
		Author:    req.Author,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	})
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}
