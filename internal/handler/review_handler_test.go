package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopcore/internal/model"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReviewStore is a mock implementation of ReviewStore.
type MockReviewStore struct {
	mock.Mock
}

func (m *MockReviewStore) GetReviews(ctx context.Context, productID string) ([]model.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewStore) AddReview(ctx context.Context, review model.Review) (string, error) {
	args := m.Called(ctx, review)
	return args.String(0), args.Error(1)
}

func TestReviewHandler_List(t *testing.T) {
	t.Run("returns reviews with average", func(t *testing.T) {
		store := new(MockReviewStore)
		store.On("GetReviews", mock.Anything, "p1").Return([]model.Review{
			{ID: "r1", ProductID: "p1", Rating: 5},
			{ID: "r2", ProductID: "p1", Rating: 2},
		}, nil)

		h := NewReviewHandler(store, zerolog.Nop())

		req := httptest.NewRequest(http.MethodGet, "/api/products/p1/reviews", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "p1"})
		rec := httptest.NewRecorder()
		h.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ReviewsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "p1", resp.ProductID)
		assert.Len(t, resp.Reviews, 2)
		assert.InDelta(t, 3.5, resp.AverageRating, 0.001)
	})

	t.Run("no reviews is an empty list with zero average", func(t *testing.T) {
		store := new(MockReviewStore)
		store.On("GetReviews", mock.Anything, "p2").Return(nil, nil)

		h := NewReviewHandler(store, zerolog.Nop())

		req := httptest.NewRequest(http.MethodGet, "/api/products/p2/reviews", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "p2"})
		rec := httptest.NewRecorder()
		h.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ReviewsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotNil(t, resp.Reviews)
		assert.Empty(t, resp.Reviews)
		assert.Zero(t, resp.AverageRating)
	})
}

func TestReviewHandler_Create(t *testing.T) {
	t.Run("valid review", func(t *testing.T) {
		store := new(MockReviewStore)
		store.On("AddReview", mock.Anything, mock.MatchedBy(func(r model.Review) bool {
			return r.ProductID == "p1" && r.Rating == 4 && r.Author == "alice"
		})).Return("r1", nil)

		h := NewReviewHandler(store, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/products/p1/reviews",
			strings.NewReader(`{"author":"alice","rating":4,"comment":"solid"}`))
		req = mux.SetURLVars(req, map[string]string{"id": "p1"})
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "r1", resp["id"])
		store.AssertExpectations(t)
	})

	t.Run("out-of-range rating", func(t *testing.T) {
		store := new(MockReviewStore)
		h := NewReviewHandler(store, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/products/p1/reviews",
			strings.NewReader(`{"author":"bob","rating":0}`))
		req = mux.SetURLVars(req, map[string]string{"id": "p1"})
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		store.AssertNotCalled(t, "AddReview", mock.Anything, mock.Anything)
	})
}
