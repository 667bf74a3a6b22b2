package model

import "time"

// CartLine is one product entry in a cart. Quantity is bounded by the
// per-product cap enforced in the cart store and again at the source
// boundary. InStock and Active are availability flags captured from the
// product at read time.
type CartLine struct {
	ProductID string `json:"productId" db:"product_id"`
	Name      string `json:"name" db:"name"`
	Quantity  int    `json:"quantity" db:"quantity"`
	UnitPrice int64  `json:"unitPrice" db:"unit_price"`
	Subtotal  int64  `json:"subtotal" db:"subtotal"`
	InStock   int    `json:"inStock" db:"in_stock"`
	Active    bool   `json:"active" db:"active"`
}

// Available reports whether the line can be selected for checkout.
func (l *CartLine) Available() bool {
	return l.Active && l.InStock > 0
}

// Cart is the canonical cart snapshot for one user as last read from the
// backing source. It is always replaced wholesale, never patched line by
// line.
type Cart struct {
	UserID    string     `json:"userId"`
	Lines     []CartLine `json:"lines"`
	ItemCount int        `json:"itemCount"`
	Subtotal  int64      `json:"subtotal"`
	FetchedAt time.Time  `json:"fetchedAt"`
}

// Line returns the line for productID, or nil when absent.
func (c *Cart) Line(productID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Recompute refreshes the derived ItemCount and Subtotal fields from the
// lines.
func (c *Cart) Recompute() {
	c.ItemCount = 0
	c.Subtotal = 0
	for i := range c.Lines {
		c.Lines[i].Subtotal = c.Lines[i].UnitPrice * int64(c.Lines[i].Quantity)
		c.ItemCount += c.Lines[i].Quantity
		c.Subtotal += c.Lines[i].Subtotal
	}
}
