package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shopcore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviewStore_FetchAndAverage(t *testing.T) {
	source := new(MockReviewSource)
	s := NewReviewStore(source, zerolog.Nop())

	source.On("GetReviews", mock.Anything, "p1").Return([]model.Review{
		{ID: "r1", ProductID: "p1", Rating: 5},
		{ID: "r2", ProductID: "p1", Rating: 2},
	}, nil)

	require.NoError(t, s.FetchReviews(context.Background(), "p1"))

	assert.Len(t, s.ReviewsFor("p1"), 2)
	assert.InDelta(t, 3.5, s.AverageRating("p1"), 0.0001)
}

func TestReviewStore_MissingProductAveragesZero(t *testing.T) {
	s := NewReviewStore(new(MockReviewSource), zerolog.Nop())

	assert.Zero(t, s.AverageRating("unknown"))
	assert.Empty(t, s.ReviewsFor("unknown"))
}

func TestReviewStore_Isolation(t *testing.T) {
	source := new(MockReviewSource)
	s := NewReviewStore(source, zerolog.Nop())

	source.On("GetReviews", mock.Anything, "p1").Return([]model.Review{
		{ID: "r1", ProductID: "p1", Rating: 5},
	}, nil)
	source.On("GetReviews", mock.Anything, "p2").Return([]model.Review{
		{ID: "r2", ProductID: "p2", Rating: 1},
		{ID: "r3", ProductID: "p2", Rating: 1},
	}, nil)

	require.NoError(t, s.FetchReviews(context.Background(), "p1"))
	require.NoError(t, s.FetchReviews(context.Background(), "p2"))

	for _, r := range s.ReviewsFor("p1") {
		assert.Equal(t, "p1", r.ProductID)
	}
	assert.InDelta(t, 5.0, s.AverageRating("p1"), 0.0001)
	assert.InDelta(t, 1.0, s.AverageRating("p2"), 0.0001)
}

func TestReviewStore_DropsMismatchedRows(t *testing.T) {
	source := new(MockReviewSource)
	s := NewReviewStore(source, zerolog.Nop())

	source.On("GetReviews", mock.Anything, "p1").Return([]model.Review{
		{ID: "r1", ProductID: "p1", Rating: 4},
		{ID: "r2", ProductID: "p9", Rating: 1},
	}, nil)

	require.NoError(t, s.FetchReviews(context.Background(), "p1"))

	reviews := s.ReviewsFor("p1")
	require.Len(t, reviews, 1)
	assert.Equal(t, "p1", reviews[0].ProductID)
	assert.InDelta(t, 4.0, s.AverageRating("p1"), 0.0001)
}

func TestReviewStore_FailureMarksOnlyThatEntry(t *testing.T) {
	source := new(MockReviewSource)
	s := NewReviewStore(source, zerolog.Nop())

	source.On("GetReviews", mock.Anything, "p1").Return([]model.Review{
		{ID: "r1", ProductID: "p1", Rating: 3},
	}, nil)
	source.On("GetReviews", mock.Anything, "p2").Return(nil, errors.New("connection refused"))

	require.NoError(t, s.FetchReviews(context.Background(), "p1"))
	err := s.FetchReviews(context.Background(), "p2")

	var terr *model.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Error(t, s.ErrorFor("p2"))
	assert.NoError(t, s.ErrorFor("p1"))
	assert.Len(t, s.ReviewsFor("p1"), 1)
	assert.Zero(t, s.AverageRating("p2"))
}

func TestReviewStore_ConcurrentFetches(t *testing.T) {
	source := new(MockReviewSource)
	s := NewReviewStore(source, zerolog.Nop())

	source.On("GetReviews", mock.Anything, "p1").Return([]model.Review{
		{ID: "r1", ProductID: "p1", Rating: 5},
	}, nil)
	source.On("GetReviews", mock.Anything, "p2").Return([]model.Review{
		{ID: "r2", ProductID: "p2", Rating: 1},
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		id := "p1"
		if i%2 == 1 {
			id = "p2"
		}
		wg.Add(1)
		go func(productID string) {
			defer wg.Done()
			_ = s.FetchReviews(context.Background(), productID)
		}(id)
	}
	wg.Wait()

	assert.InDelta(t, 5.0, s.AverageRating("p1"), 0.0001)
	assert.InDelta(t, 1.0, s.AverageRating("p2"), 0.0001)
}
