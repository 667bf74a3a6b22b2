package store

import (
	"sync"

	"shopcore/internal/model"

	"github.com/rs/zerolog"
)

// lowStockThreshold is the upper bound (inclusive) for the advisory
// low-stock warning on selected lines.
const lowStockThreshold = 5

// ShippingQuote prices shipping for a given merchandise subtotal. It is an
// injected collaborator; the projection never hard-codes a rate.
type ShippingQuote func(subtotal int64) int64

// Totals is the checkout money summary over the current selection.
type Totals struct {
	Lines    int   `json:"lines"`
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// LowStockWarning is advisory: a selected line whose remaining stock is
// running out. It never blocks checkout.
type LowStockWarning struct {
	ProductID string `json:"productId"`
	InStock   int    `json:"inStock"`
}

// Checkout projects the selectable, selected subset of the cart for the
// checkout handoff. Only lines that are in stock and active are ever
// selectable. The projection is recomputed from every cart snapshot the
// CartStore applies: stale ids are dropped, lines that turned unavailable
// are deselected, and newly appearing selectable lines default to selected
// (matching the initial all-selectable default of a fresh load).
type Checkout struct {
	logger zerolog.Logger

	mu       sync.Mutex
	snapshot *model.Cart
	selected map[string]struct{}
}

// NewCheckout creates an empty checkout projection.
func NewCheckout(logger zerolog.Logger) *Checkout {
	return &Checkout{
		logger:   logger.With().Str("store", "checkout").Logger(),
		selected: make(map[string]struct{}),
	}
}

// Apply recomputes the selection against a fresh cart snapshot.
func (c *Checkout) Apply(cart *model.Cart) {
	c.mu.Lock()
	defer c.mu.Unlock()

	known := make(map[string]bool, len(cart.Lines))
	if c.snapshot != nil {
		for _, line := range c.snapshot.Lines {
			known[line.ProductID] = true
		}
	}

	next := make(map[string]struct{}, len(cart.Lines))
	for _, line := range cart.Lines {
		if !line.Available() {
			continue
		}
		_, wasSelected := c.selected[line.ProductID]
		if wasSelected || !known[line.ProductID] {
			next[line.ProductID] = struct{}{}
		}
	}

	c.snapshot = cart
	c.selected = next
}

// Toggle flips one line's selection. It is a distinguishable no-op,
// returning false, when the line is absent or unavailable.
func (c *Checkout) Toggle(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil {
		return false
	}
	line := c.snapshot.Line(productID)
	if line == nil || !line.Available() {
		c.logger.Debug().Str("product_id", productID).Msg("toggle ignored for unavailable line")
		return false
	}

	if _, ok := c.selected[productID]; ok {
		delete(c.selected, productID)
	} else {
		c.selected[productID] = struct{}{}
	}
	return true
}

// ToggleAll selects every selectable line, or clears the selection when all
// selectable lines are already selected. Unavailable lines are never
// selected, even under select-all.
func (c *Checkout) ToggleAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil {
		return
	}

	selectable := 0
	for _, line := range c.snapshot.Lines {
		if line.Available() {
			selectable++
		}
	}

	if selectable > 0 && len(c.selected) == selectable {
		c.selected = make(map[string]struct{})
		return
	}

	next := make(map[string]struct{}, selectable)
	for _, line := range c.snapshot.Lines {
		if line.Available() {
			next[line.ProductID] = struct{}{}
		}
	}
	c.selected = next
}

// Selected returns the selected product ids in cart order.
func (c *Checkout) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil {
		return nil
	}
	out := make([]string, 0, len(c.selected))
	for _, line := range c.snapshot.Lines {
		if _, ok := c.selected[line.ProductID]; ok {
			out = append(out, line.ProductID)
		}
	}
	return out
}

// IsSelected reports whether one line is selected.
func (c *Checkout) IsSelected(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[productID]
	return ok
}

// ComputeTotals prices the current selection. discountPct is a whole
// percentage (0..100) applied to the merchandise subtotal, typically from a
// validated promo code; quote prices shipping and may be nil for free
// shipping.
func (c *Checkout) ComputeTotals(quote ShippingQuote, discountPct int) Totals {
	c.mu.Lock()
	defer c.mu.Unlock()

	var t Totals
	if c.snapshot == nil {
		return t
	}
	for _, line := range c.snapshot.Lines {
		if _, ok := c.selected[line.ProductID]; !ok {
			continue
		}
		t.Lines++
		t.Subtotal += line.UnitPrice * int64(line.Quantity)
	}

	if discountPct > 0 {
		t.Discount = t.Subtotal * int64(discountPct) / 100
	}
	if quote != nil {
		t.Shipping = quote(t.Subtotal)
	}
	t.Total = t.Subtotal - t.Discount + t.Shipping
	return t
}

// ValidateForCheckout re-validates the selection at submit time. It fails
// with ErrEmptySelection for an empty selection and with
// ErrUnavailableItemSelected when any selected line turned unavailable since
// it was selected. The returned warnings list selected lines with 1..5 units
// left and is advisory only.
func (c *Checkout) ValidateForCheckout() ([]LowStockWarning, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil || len(c.selected) == 0 {
		return nil, model.ErrEmptySelection
	}

	var warnings []LowStockWarning
	for _, line := range c.snapshot.Lines {
		if _, ok := c.selected[line.ProductID]; !ok {
			continue
		}
		if !line.Available() {
			c.logger.Warn().Str("product_id", line.ProductID).Msg("selected line is no longer available")
			return nil, model.ErrUnavailableItemSelected
		}
		if line.InStock >= 1 && line.InStock <= lowStockThreshold {
			warnings = append(warnings, LowStockWarning{
				ProductID: line.ProductID,
				InStock:   line.InStock,
			})
		}
	}

	return warnings, nil
}
