package store

import (
	"context"

	"shopcore/internal/model"
)

// CatalogSource is the backing catalogue. Implementations may be a local
// database or a remote API; the stores never assume which. A limit <= 0
// requests the full filtered set.
type CatalogSource interface {
	// ListProducts returns active products matching the filter plus the
	// total match count.
	ListProducts(ctx context.Context, filter model.CatalogFilter, limit, offset int) ([]model.Product, int, error)

	// GetProduct returns a single product, or nil when absent.
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}

// CartSource is the canonical cart state for all users. Mutations are
// expected to enforce the per-line quantity bounds themselves as well;
// RemoveItem on an absent line must succeed.
type CartSource interface {
	GetCart(ctx context.Context, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	UpdateItem(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// ReviewSource serves reviews for a single product.
type ReviewSource interface {
	GetReviews(ctx context.Context, productID string) ([]model.Review, error)
}

// Session is the ambient authentication context for the stores.
type Session interface {
	Authenticated() bool
	UserID() string
}
