package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapVoucherSet(t *testing.T) {
	set := NewMapVoucherSet(4).(*mapVoucherSet)

	assert.Equal(t, 0, set.Size())
	assert.False(t, set.Contains("SUMMER2025"))

	set.Add("SUMMER2025")
	set.Add("WINTER2025")
	set.Add("SUMMER2025") // duplicate

	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains("SUMMER2025"))
	assert.True(t, set.Contains("WINTER2025"))
	assert.False(t, set.Contains("AUTUMN2025"))
}
