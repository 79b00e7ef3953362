package domain_test

import (
	"testing"

	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, price string, stock int) *domain.Product {
	return &domain.Product{
		ID:           id,
		Name:         "AC unit",
		Price:        decimal.RequireFromString(price),
		CategoryName: "Split",
		Subcategory:  "Residential",
		Stock:        stock,
	}
}

func TestCart_AddMergesAndRespectsStock(t *testing.T) {
	var c domain.Cart
	p := product(1, "100.00", 5)

	require.True(t, c.Add(p, 3))
	require.True(t, c.Add(p, 2))
	assert.Equal(t, 5, c.Quantity(1))
	assert.Len(t, c.Lines, 1)

	assert.False(t, c.Add(p, 1), "merged quantity above stock")
	assert.Equal(t, 5, c.Quantity(1))
}

func TestCart_AddRejectsInvalidQuantity(t *testing.T) {
	var c domain.Cart
	p := product(1, "10.00", 5)

	assert.False(t, c.Add(p, 0))
	assert.False(t, c.Add(p, -2))
	assert.False(t, c.Add(nil, 1))
	assert.True(t, c.IsEmpty())
}

func TestCart_QuantityNeverExceedsStock(t *testing.T) {
	var c domain.Cart
	p := product(7, "1.00", 4)

	for _, q := range []int{1, 3, 2, 1, 5, 1} {
		c.Add(p, q)
		assert.LessOrEqual(t, c.Quantity(p.ID), p.Stock)
	}
}

func TestCart_AddThenRemoveRestoresEmpty(t *testing.T) {
	var c domain.Cart
	p := product(3, "250.50", 2)

	require.True(t, c.Add(p, 2))
	c.Remove(p.ID)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, domain.Cart{}, c)
}

func TestCart_RemoveMissingIsNoop(t *testing.T) {
	var c domain.Cart
	require.True(t, c.Add(product(1, "1.00", 1), 1))

	c.Remove(99)
	assert.Len(t, c.Lines, 1)
}

func TestCart_Totals(t *testing.T) {
	tests := []struct {
		name     string
		discount string
		subtotal string
		total    string
	}{
		{name: "no discount", discount: "0", subtotal: "350.00", total: "350.00"},
		{name: "discount", discount: "50.25", subtotal: "350.00", total: "299.75"},
		{name: "discount above subtotal", discount: "400", subtotal: "350.00", total: "-50.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c domain.Cart
			require.True(t, c.Add(product(1, "100.00", 5), 3))
			require.True(t, c.Add(product(2, "25.00", 2), 2))
			c.Discount = decimal.RequireFromString(tt.discount)

			assert.True(t, decimal.RequireFromString(tt.subtotal).Equal(c.Subtotal()), c.Subtotal().String())
			assert.True(t, decimal.RequireFromString(tt.total).Equal(c.Total()), c.Total().String())
			assert.True(t, c.Total().Equal(c.Subtotal().Sub(c.Discount)))
		})
	}
}

func TestCart_ClearDropsCustomerAndAdjustments(t *testing.T) {
	c := domain.Cart{CustomerID: 4, Discount: decimal.NewFromInt(5), Notes: "gift"}
	require.True(t, c.Add(product(1, "1.00", 1), 1))

	c.Clear()

	assert.Equal(t, domain.Cart{}, c)
}

func TestCart_OrderLines(t *testing.T) {
	var c domain.Cart
	require.True(t, c.Add(product(1, "19.99", 10), 3))

	lines := c.OrderLines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("59.97").Equal(lines[0].Subtotal))
}
