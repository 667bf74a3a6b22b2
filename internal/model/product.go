package model

import "time"

// Product represents a catalogue product. Price is in the smallest currency
// unit. The ID is the canonical identifier; source implementations that read
// from stores keyed differently (e.g. a document store's `_id`) normalise to
// this field at their own boundary.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     int64     `json:"price" db:"price"`
	Stock     int       `json:"stock" db:"stock"`
	Active    bool      `json:"active" db:"active"`
	Category  string    `json:"category" db:"category"`
	Rating    float64   `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Available reports whether the product can currently be sold.
func (p *Product) Available() bool {
	return p.Active && p.Stock > 0
}

// CatalogFilter scopes a catalogue listing. Zero value means "all active
// products". Category and Search are mutually exclusive in practice; when
// both are set, Search wins.
type CatalogFilter struct {
	Category string
	Search   string
}

// Page is one page of a paginated catalogue view.
type Page struct {
	Items       []Product `json:"items"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	HasMore     bool      `json:"hasMore"`
}
