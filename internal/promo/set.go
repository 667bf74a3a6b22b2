package promo

// mapVoucherSet implements VoucherSet using a map for O(1) lookups.
type mapVoucherSet struct {
	codes map[string]struct{}
}

// NewMapVoucherSet creates a new map-based voucher set.
func NewMapVoucherSet(capacity int) VoucherSet {
	return &mapVoucherSet{
		codes: make(map[string]struct{}, capacity),
	}
}

// Contains checks if a code exists in the set.
func (s *mapVoucherSet) Contains(code string) bool {
	_, exists := s.codes[code]
	return exists
}

// Size returns the number of codes in the set.
func (s *mapVoucherSet) Size() int {
	return len(s.codes)
}

// Add adds a code to the set.
func (s *mapVoucherSet) Add(code string) {
	s.codes[code] = struct{}{}
}
