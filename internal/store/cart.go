package store

import (
	"context"
	"sync"
	"time"

	"shopcore/internal/model"

	"github.com/rs/zerolog"
)

// CartStore owns the canonical cart snapshot for one user session. Every
// mutation is written to the backing source and then followed by a full
// re-read of the canonical cart ("write-then-read-back"), so the cached
// snapshot never diverges from the source for longer than one mutation.
//
// Mutations are serialized by an in-flight guard: a second mutation while
// one is pending fails with ErrMutationInFlight rather than queueing, since
// the re-sync after the pending one would supersede it anyway.
type CartStore struct {
	source     CartSource
	catalog    CatalogSource
	session    Session
	checkout   *Checkout
	maxPerLine int
	logger     zerolog.Logger

	mu       sync.Mutex
	snapshot *model.Cart
	mutating bool
}

// NewCartStore creates a cart store. checkout may be nil when no selection
// projection is attached; maxPerLine is the per-product quantity cap.
func NewCartStore(
	source CartSource,
	catalog CatalogSource,
	session Session,
	checkout *Checkout,
	maxPerLine int,
	logger zerolog.Logger,
) *CartStore {
	if maxPerLine < 1 {
		maxPerLine = 1
	}
	return &CartStore{
		source:     source,
		catalog:    catalog,
		session:    session,
		checkout:   checkout,
		maxPerLine: maxPerLine,
		logger:     logger.With().Str("store", "cart").Logger(),
	}
}

// Snapshot returns the cached canonical cart, or nil before the first
// successful refresh. The returned value must not be mutated.
func (s *CartStore) Snapshot() *model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Refresh loads the canonical cart for the current user and swaps it in
// wholesale. On transport failure the prior snapshot is preserved.
func (s *CartStore) Refresh(ctx context.Context) error {
	if !s.session.Authenticated() {
		return model.ErrUnauthenticated
	}

	userID := s.session.UserID()
	cart, err := s.source.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to fetch cart, keeping prior snapshot")
		return model.NewTransportError("fetch cart", err)
	}

	if cart == nil {
		cart = &model.Cart{UserID: userID}
	}
	cart.Recompute()
	cart.FetchedAt = time.Now()

	s.mu.Lock()
	s.snapshot = cart
	s.mu.Unlock()

	if s.checkout != nil {
		s.checkout.Apply(cart)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("line_count", len(cart.Lines)).
		Int("item_count", cart.ItemCount).
		Msg("cart snapshot refreshed")

	return nil
}

// AddItem adds quantity units of a product to the cart. It fails with
// ErrQuantityLimitExceeded when the resulting line would exceed the
// per-product cap (the line is left unchanged), and with ErrOutOfStock when
// available stock cannot cover the resulting line. A successful write is
// always followed by a full Refresh.
func (s *CartStore) AddItem(ctx context.Context, productID string, quantity int) error {
	if !s.session.Authenticated() {
		return model.ErrUnauthenticated
	}
	if quantity < 1 {
		return model.ErrInvalidQuantity
	}

	if !s.beginMutation() {
		return model.ErrMutationInFlight
	}
	defer s.endMutation()

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return model.NewTransportError("lookup product", err)
	}
	if product == nil || !product.Active {
		return model.ErrNotFound
	}

	existing := 0
	s.mu.Lock()
	if s.snapshot != nil {
		if line := s.snapshot.Line(productID); line != nil {
			existing = line.Quantity
		}
	}
	s.mu.Unlock()

	target := existing + quantity
	if target > s.maxPerLine {
		s.logger.Warn().
			Str("product_id", productID).
			Int("existing", existing).
			Int("requested", quantity).
			Int("cap", s.maxPerLine).
			Msg("per-line quantity cap exceeded")
		return model.ErrQuantityLimitExceeded
	}
	if target > product.Stock {
		s.logger.Warn().
			Str("product_id", productID).
			Int("requested", target).
			Int("stock", product.Stock).
			Msg("insufficient stock")
		return model.ErrOutOfStock
	}

	if err := s.source.AddItem(ctx, s.session.UserID(), productID, quantity); err != nil {
		return model.NewTransportError("add cart item", err)
	}

	return s.Refresh(ctx)
}

// UpdateQuantity sets a line's quantity. A requested quantity below one is
// never applied; it returns ErrConfirmRemoval so the caller can run its
// removal confirmation flow. A quantity above the cap is clamped to the cap,
// written, and then reported via ErrQuantityLimitExceeded so the caller can
// surface the rule violation against already-consistent state.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if !s.session.Authenticated() {
		return model.ErrUnauthenticated
	}
	if quantity < 1 {
		return model.ErrConfirmRemoval
	}

	if !s.beginMutation() {
		return model.ErrMutationInFlight
	}
	defer s.endMutation()

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return model.NewTransportError("lookup product", err)
	}
	if product == nil {
		return model.ErrNotFound
	}

	clamped := quantity
	if clamped > s.maxPerLine {
		clamped = s.maxPerLine
	}
	if clamped > product.Stock {
		s.logger.Warn().
			Str("product_id", productID).
			Int("requested", clamped).
			Int("stock", product.Stock).
			Msg("insufficient stock")
		return model.ErrOutOfStock
	}

	if err := s.source.UpdateItem(ctx, s.session.UserID(), productID, clamped); err != nil {
		return model.NewTransportError("update cart item", err)
	}

	if err := s.Refresh(ctx); err != nil {
		return err
	}

	if clamped != quantity {
		s.logger.Warn().
			Str("product_id", productID).
			Int("requested", quantity).
			Int("stored", clamped).
			Msg("quantity clamped to per-line cap")
		return model.ErrQuantityLimitExceeded
	}

	return nil
}

// RemoveItem removes a line. Removing an absent line is not an error; the
// snapshot is re-synced either way, which also drops the id from the
// attached selection.
func (s *CartStore) RemoveItem(ctx context.Context, productID string) error {
	if !s.session.Authenticated() {
		return model.ErrUnauthenticated
	}

	if !s.beginMutation() {
		return model.ErrMutationInFlight
	}
	defer s.endMutation()

	if err := s.source.RemoveItem(ctx, s.session.UserID(), productID); err != nil {
		return model.NewTransportError("remove cart item", err)
	}

	return s.Refresh(ctx)
}

// Clear bulk-removes every line. Per-line confirmation is the caller's
// concern; once invoked the operation is unconditional.
func (s *CartStore) Clear(ctx context.Context) error {
	if !s.session.Authenticated() {
		return model.ErrUnauthenticated
	}

	if !s.beginMutation() {
		return model.ErrMutationInFlight
	}
	defer s.endMutation()

	if err := s.source.Clear(ctx, s.session.UserID()); err != nil {
		return model.NewTransportError("clear cart", err)
	}

	return s.Refresh(ctx)
}

func (s *CartStore) beginMutation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutating {
		return false
	}
	s.mutating = true
	return true
}

func (s *CartStore) endMutation() {
	s.mu.Lock()
	s.mutating = false
	s.mu.Unlock()
}
