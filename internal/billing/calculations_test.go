package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotalsMixedDiscounts(t *testing.T) {
	items := []LineItem{
		{ID: 1, Quantity: 2, Rate: 1500, Discount: 10, DiscountType: DiscountPercentage},
		{ID: 2, Quantity: 1, Rate: 250.75, Discount: 50, DiscountType: DiscountAmount},
		{ID: 3, Quantity: 3, Rate: 99.99},
	}

	totals := CalculateTotals(items)

	assert.InDelta(t, 3550.72, totals.Subtotal, 1e-9)
	assert.InDelta(t, 350, totals.TotalDiscount, 1e-9)
	assert.Equal(t, totals.Subtotal-totals.TotalDiscount, totals.Total)
}

func TestCalculateTotalsAdditivity(t *testing.T) {
	cases := [][]LineItem{
		{{Quantity: 1, Rate: 0.1, Discount: 33.3}},
		{{Quantity: 7, Rate: 12.35, Discount: 3.5, DiscountType: DiscountAmount}, {Quantity: 1, Rate: 1e6, Discount: 0.5}},
		{{Quantity: 0, Rate: 100, Discount: 20, DiscountType: DiscountAmount}},
		{{Quantity: 2.5, Rate: 19.99, Discount: 100}},
	}
	for _, items := range cases {
		totals := CalculateTotals(items)
		assert.Equal(t, totals.Subtotal-totals.TotalDiscount, totals.Total)

		var net float64
		for _, it := range items {
			net += it.Net()
		}
		assert.InDelta(t, net, totals.Total, 1e-6)
	}
}

func TestCalculateTotalsEmpty(t *testing.T) {
	assert.Equal(t, Totals{}, CalculateTotals(nil))
	assert.Equal(t, Totals{}, CalculateTotals([]LineItem{}))
}

func TestCalculateTotalsAllowsNegativeTotal(t *testing.T) {
	totals := CalculateTotals([]LineItem{
		{Quantity: 1, Rate: 100, Discount: 250, DiscountType: DiscountAmount},
	})

	assert.Equal(t, 100.0, totals.Subtotal)
	assert.Equal(t, 250.0, totals.TotalDiscount)
	assert.Equal(t, -150.0, totals.Total)
}

func TestPercentageDiscountIsNotClampedByCalculator(t *testing.T) {
	item := LineItem{Quantity: 2, Rate: 50, Discount: 150, DiscountType: DiscountPercentage}

	assert.Equal(t, 150.0, item.DiscountValue())
	assert.Equal(t, -50.0, item.Net())
}

func TestEmptyDiscountTypeMeansPercentage(t *testing.T) {
	item := LineItem{Quantity: 4, Rate: 25, Discount: 10}

	assert.Equal(t, DiscountPercentage, item.Mode())
	assert.Equal(t, 10.0, item.DiscountValue())
}

func TestSetDiscountTypeResetsDiscount(t *testing.T) {
	item := LineItem{Quantity: 1, Rate: 500, Discount: 40, DiscountType: DiscountPercentage}

	item.SetDiscountType(DiscountAmount)
	require.Equal(t, DiscountAmount, item.DiscountType)
	assert.Zero(t, item.Discount)

	item.Discount = 120
	item.SetDiscountType(DiscountPercentage)
	assert.Zero(t, item.Discount)

	item.Discount = 5
	item.SetDiscountType(DiscountPercentage)
	assert.Zero(t, item.Discount)
}

func TestCommitQuantity(t *testing.T) {
	cases := map[string]float64{
		"":    1,
		"0":   1,
		"-4":  1,
		"3":   3,
		"3.7": 3,
		"12x": 12,
		"abc": 1,
	}
	for raw, want := range cases {
		var item LineItem
		item.CommitQuantity(raw)
		assert.Equal(t, want, item.Quantity, "raw %q", raw)
	}
}

func TestCommitDiscountClampsPerMode(t *testing.T) {
	item := LineItem{DiscountType: DiscountPercentage}
	item.CommitDiscount(150)
	assert.Equal(t, 100.0, item.Discount)
	item.CommitDiscount(-3)
	assert.Zero(t, item.Discount)

	item.SetDiscountType(DiscountAmount)
	item.CommitDiscount(5000)
	assert.Equal(t, 5000.0, item.Discount)
}

func TestCommitRateNeverNegative(t *testing.T) {
	var item LineItem
	item.CommitRate(-10)
	assert.Zero(t, item.Rate)
	item.CommitRate(42.5)
	assert.Equal(t, 42.5, item.Rate)
}

func TestNextItemID(t *testing.T) {
	assert.Equal(t, int64(1), NextItemID(nil))
	assert.Equal(t, int64(8), NextItemID([]LineItem{{ID: 3}, {ID: 7}, {ID: 1}}))
}
