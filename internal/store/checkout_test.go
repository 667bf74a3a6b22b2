package store

import (
	"testing"

	"shopcore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func availableLine(id string, qty int, price int64) model.CartLine {
	return model.CartLine{ProductID: id, Quantity: qty, UnitPrice: price, InStock: 10, Active: true}
}

func TestCheckout_FreshLoadSelectsAllSelectable(t *testing.T) {
	c := NewCheckout(zerolog.Nop())

	c.Apply(cartWith(
		availableLine("a", 1, 1000),
		model.CartLine{ProductID: "b", Quantity: 1, UnitPrice: 500, InStock: 0, Active: true},
		model.CartLine{ProductID: "c", Quantity: 2, UnitPrice: 300, InStock: 4, Active: false},
	))

	assert.Equal(t, []string{"a"}, c.Selected())
}

func TestCheckout_ToggleUnavailableIsNoOp(t *testing.T) {
	c := NewCheckout(zerolog.Nop())
	c.Apply(cartWith(
		availableLine("a", 1, 1000),
		model.CartLine{ProductID: "b", Quantity: 1, UnitPrice: 500, InStock: 0, Active: true},
	))

	assert.False(t, c.Toggle("b"))
	assert.False(t, c.Toggle("missing"))
	assert.False(t, c.IsSelected("b"))

	assert.True(t, c.Toggle("a"))
	assert.False(t, c.IsSelected("a"))
	assert.True(t, c.Toggle("a"))
	assert.True(t, c.IsSelected("a"))
}

func TestCheckout_ToggleAllExcludesUnavailable(t *testing.T) {
	c := NewCheckout(zerolog.Nop())
	c.Apply(cartWith(
		availableLine("a", 1, 1000),
		model.CartLine{ProductID: "b", Quantity: 1, UnitPrice: 500, InStock: 0, Active: true},
		availableLine("d", 1, 700),
	))

	// All selectable are selected after the fresh load; toggle-all clears.
	c.ToggleAll()
	assert.Empty(t, c.Selected())

	// Toggle-all again selects exactly the selectable lines.
	c.ToggleAll()
	assert.Equal(t, []string{"a", "d"}, c.Selected())
	assert.False(t, c.IsSelected("b"))
}

func TestCheckout_RefreshDropsStaleAndUnavailableIDs(t *testing.T) {
	c := NewCheckout(zerolog.Nop())
	c.Apply(cartWith(
		availableLine("a", 1, 1000),
		availableLine("b", 1, 500),
		availableLine("c", 1, 300),
	))
	require.ElementsMatch(t, []string{"a", "b", "c"}, c.Selected())

	// "b" left the cart, "c" went out of stock.
	c.Apply(cartWith(
		availableLine("a", 1, 1000),
		model.CartLine{ProductID: "c", Quantity: 1, UnitPrice: 300, InStock: 0, Active: true},
	))

	assert.Equal(t, []string{"a"}, c.Selected())
}

func TestCheckout_RefreshKeepsDeselection(t *testing.T) {
	c := NewCheckout(zerolog.Nop())
	c.Apply(cartWith(availableLine("a", 1, 1000), availableLine("b", 1, 500)))

	require.True(t, c.Toggle("a"))
	require.False(t, c.IsSelected("a"))

	// A refresh of the same lines must not resurrect the deselected line.
	c.Apply(cartWith(availableLine("a", 1, 1000), availableLine("b", 1, 500)))

	assert.False(t, c.IsSelected("a"))
	assert.True(t, c.IsSelected("b"))
}

func TestCheckout_NewLineDefaultsToSelected(t *testing.T) {
	c := NewCheckout(zerolog.Nop())
	c.Apply(cartWith(availableLine("a", 1, 1000)))

	c.Apply(cartWith(availableLine("a", 1, 1000), availableLine("b", 1, 500)))

	assert.True(t, c.IsSelected("b"))
}

func TestCheckout_ComputeTotals(t *testing.T) {
	c := NewCheckout(zerolog.Nop())
	c.Apply(cartWith(
		availableLine("a", 2, 1000),
		availableLine("b", 1, 500),
	))

	flatRate := func(subtotal int64) int64 { return 299 }

	totals := c.ComputeTotals(flatRate, 10)

	assert.Equal(t, 2, totals.Lines)
	assert.Equal(t, int64(2500), totals.Subtotal)
	assert.Equal(t, int64(250), totals.Discount)
	assert.Equal(t, int64(299), totals.Shipping)
	assert.Equal(t, int64(2549), totals.Total)
}

func TestCheckout_ComputeTotals_NilQuoteMeansFreeShipping(t *testing.T) {
	c := NewCheckout(zerolog.Nop())
	c.Apply(cartWith(availableLine("a", 1, 1000)))

	totals := c.ComputeTotals(nil, 0)

	assert.Equal(t, int64(1000), totals.Subtotal)
	assert.Zero(t, totals.Shipping)
	assert.Equal(t, int64(1000), totals.Total)
}

func TestCheckout_ValidateForCheckout_EmptySelection(t *testing.T) {
	c := NewCheckout(zerolog.Nop())

	_, err := c.ValidateForCheckout()
	assert.ErrorIs(t, err, model.ErrEmptySelection)

	c.Apply(cartWith(availableLine("a", 1, 1000)))
	c.ToggleAll() // clears

	_, err = c.ValidateForCheckout()
	assert.ErrorIs(t, err, model.ErrEmptySelection)
}

func TestCheckout_ValidateForCheckout_UnavailableSelected(t *testing.T) {
	c := NewCheckout(zerolog.Nop())
	c.Apply(cartWith(availableLine("a", 1, 1000)))

	// The line goes out of stock between selection and submit. Mutate the
	// snapshot directly to model a source-side change not yet re-applied.
	c.snapshot.Lines[0].InStock = 0

	_, err := c.ValidateForCheckout()
	assert.ErrorIs(t, err, model.ErrUnavailableItemSelected)
}

func TestCheckout_ValidateForCheckout_LowStockWarnings(t *testing.T) {
	c := NewCheckout(zerolog.Nop())
	c.Apply(cartWith(
		model.CartLine{ProductID: "a", Quantity: 1, UnitPrice: 1000, InStock: 3, Active: true},
		model.CartLine{ProductID: "b", Quantity: 1, UnitPrice: 500, InStock: 6, Active: true},
		model.CartLine{ProductID: "c", Quantity: 1, UnitPrice: 200, InStock: 1, Active: true},
	))

	warnings, err := c.ValidateForCheckout()

	require.NoError(t, err)
	assert.ElementsMatch(t, []LowStockWarning{
		{ProductID: "a", InStock: 3},
		{ProductID: "c", InStock: 1},
	}, warnings)
}
