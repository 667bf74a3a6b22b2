package store

import (
	"context"

	"shopcore/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockCartSource is a mock implementation of CartSource.
type MockCartSource struct {
	mock.Mock
}

func (m *MockCartSource) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartSource) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartSource) UpdateItem(ctx context.Context, userID, productID string, quantity int) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartSource) RemoveItem(ctx context.Context, userID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartSource) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockCatalogSource is a mock implementation of CatalogSource.
type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) ListProducts(ctx context.Context, filter model.CatalogFilter, limit, offset int) ([]model.Product, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *MockCatalogSource) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockReviewSource is a mock implementation of ReviewSource.
type MockReviewSource struct {
	mock.Mock
}

func (m *MockReviewSource) GetReviews(ctx context.Context, productID string) ([]model.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

// stubSession is a fixed authentication context for tests.
type stubSession struct {
	authed bool
	userID string
}

func (s *stubSession) Authenticated() bool { return s.authed }
func (s *stubSession) UserID() string      { return s.userID }
