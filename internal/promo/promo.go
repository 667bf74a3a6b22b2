package promo

import "context"

// Discount is the checkout discount granted by a validated promo code, as a
// whole percentage of the merchandise subtotal.
type Discount struct {
	Code string
	Pct  int
}

// Validator validates promo codes at checkout time.
type Validator interface {
	// Validate checks a promo code and returns the discount it grants.
	// A valid code is 8 to 10 characters long and appears in one of the
	// active voucher lists; the first list containing it decides the
	// discount tier.
	Validate(ctx context.Context, code string) (Discount, error)

	// Close releases resources held by the validator.
	Close() error
}

// VoucherSet is one loaded voucher list with fast membership lookup.
type VoucherSet interface {
	// Contains checks if a code exists in the set.
	Contains(code string) bool

	// Size returns the number of codes in the set.
	Size() int
}

// Loader reads a gzipped voucher list into a VoucherSet.
type Loader interface {
	Load(ctx context.Context, path string) (VoucherSet, error)
}
