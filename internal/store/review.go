package store

import (
	"context"
	"sync"

	"shopcore/internal/model"

	"github.com/rs/zerolog"
)

// reviewEntry is the cached state for one product's reviews. Entries are
// strictly keyed by product id; no buffer is ever shared between products,
// so concurrent fetches for different ids cannot contaminate each other.
type reviewEntry struct {
	reviews []model.Review
	err     error
	loaded  bool
}

// ReviewStore fetches and caches reviews per product id and computes the
// average rating on demand.
type ReviewStore struct {
	source ReviewSource
	logger zerolog.Logger

	mu      sync.Mutex
	entries map[string]*reviewEntry
}

// NewReviewStore creates a review store.
func NewReviewStore(source ReviewSource, logger zerolog.Logger) *ReviewStore {
	return &ReviewStore{
		source:  source,
		logger:  logger.With().Str("store", "review").Logger(),
		entries: make(map[string]*reviewEntry),
	}
}

// FetchReviews loads the reviews for one product. Calling it again for the
// same product re-fetches and replaces that product's entry. A failure marks
// only that product's entry as errored; other entries are untouched.
func (s *ReviewStore) FetchReviews(ctx context.Context, productID string) error {
	reviews, err := s.source.GetReviews(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to fetch reviews")
		terr := model.NewTransportError("fetch reviews", err)
		s.mu.Lock()
		s.entries[productID] = &reviewEntry{err: terr}
		s.mu.Unlock()
		return terr
	}

	// Shield against a misbehaving source handing back rows for another
	// product.
	kept := make([]model.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.ProductID == productID {
			kept = append(kept, r)
		}
	}
	if len(kept) != len(reviews) {
		s.logger.Warn().
			Str("product_id", productID).
			Int("dropped", len(reviews)-len(kept)).
			Msg("dropped reviews keyed to a different product")
	}

	s.mu.Lock()
	s.entries[productID] = &reviewEntry{reviews: kept, loaded: true}
	s.mu.Unlock()

	s.logger.Debug().Str("product_id", productID).Int("count", len(kept)).Msg("reviews cached")
	return nil
}

// ReviewsFor returns the cached reviews for a product. Missing or errored
// entries yield an empty list.
func (s *ReviewStore) ReviewsFor(productID string) []model.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[productID]
	if !ok || !entry.loaded {
		return nil
	}
	out := make([]model.Review, len(entry.reviews))
	copy(out, entry.reviews)
	return out
}

// AverageRating returns the mean rating for a product, 0 when the entry is
// missing, empty or errored.
func (s *ReviewStore) AverageRating(productID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[productID]
	if !ok || !entry.loaded {
		return 0
	}
	return model.AverageRating(entry.reviews)
}

// ErrorFor returns the fetch error recorded for a product, if any.
func (s *ReviewStore) ErrorFor(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[productID]
	if !ok {
		return nil
	}
	return entry.err
}
