// Package billing holds the computations shared by quotations and bills:
// line item totals, currency formatting, amount-in-words and document numbers.
package billing

import "math"

// DiscountType selects how a line item's discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountAmount     DiscountType = "amount"
)

// Valid reports whether t is a known discount mode.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountAmount
}

// LineItem is one billable row of a quotation or bill.
type LineItem struct {
	ID           int64        `json:"id"`
	Description  string       `json:"description"`
	Quantity     float64      `json:"quantity"`
	Rate         float64      `json:"rate"`
	Discount     float64      `json:"discount"`
	DiscountType DiscountType `json:"discountType"`
}

// Mode returns the effective discount mode. Rows stored before the mode
// existed carry an empty value and are treated as percentage.
func (it LineItem) Mode() DiscountType {
	if it.DiscountType == DiscountAmount {
		return DiscountAmount
	}
	return DiscountPercentage
}

// Gross is quantity times rate.
func (it LineItem) Gross() float64 {
	return it.Quantity * it.Rate
}

// DiscountValue is the currency value taken off the gross amount. The
// percentage is not clamped here; bounds are enforced where values are typed.
func (it LineItem) DiscountValue() float64 {
	if it.Mode() == DiscountAmount {
		return it.Discount
	}
	return it.Gross() * it.Discount / 100
}

// Net is gross minus discount and may be negative.
func (it LineItem) Net() float64 {
	return it.Gross() - it.DiscountValue()
}

// SetDiscountType switches the discount mode. The value is reset to zero,
// never converted.
func (it *LineItem) SetDiscountType(t DiscountType) {
	it.DiscountType = t
	it.Discount = 0
}

// CommitQuantity applies the quantity typed into a form: empty input means 1,
// otherwise the integer prefix of the text, never below 1.
func (it *LineItem) CommitQuantity(raw string) {
	if raw == "" {
		it.Quantity = 1
		return
	}
	q := parseIntPrefix(raw)
	if math.IsNaN(q) || q < 1 {
		q = 1
	}
	it.Quantity = q
}

// CommitDiscount stores a typed discount clamped for the current mode.
func (it *LineItem) CommitDiscount(v float64) {
	it.Discount = DiscountBounds(it.Mode()).Clamp(v)
}

// CommitRate stores a typed rate, never below zero.
func (it *LineItem) CommitRate(v float64) {
	it.Rate = RateBounds.Clamp(v)
}

// Totals summarises a document's items.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"totalDiscount"`
	Total         float64 `json:"total"`
}

// CalculateTotals sums gross and discount over items. Total is always
// Subtotal - TotalDiscount; an over-discounted document goes negative.
func CalculateTotals(items []LineItem) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.Gross()
		t.TotalDiscount += it.DiscountValue()
	}
	t.Total = t.Subtotal - t.TotalDiscount
	return t
}

// NextItemID returns an id one above the largest id in items.
func NextItemID(items []LineItem) int64 {
	var max int64
	for _, it := range items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}

// Bounds is an inclusive numeric range used when committing typed values.
type Bounds struct {
	Min float64
	Max float64
}

var (
	RateBounds    = Bounds{Min: 0, Max: math.Inf(1)}
	PercentBounds = Bounds{Min: 0, Max: 100}
	AmountBounds  = Bounds{Min: 0, Max: math.Inf(1)}
)

// DiscountBounds returns the allowed range for a discount in mode t.
func DiscountBounds(t DiscountType) Bounds {
	if t == DiscountAmount {
		return AmountBounds
	}
	return PercentBounds
}

// Clamp limits v to the range. NaN commits as Min.
func (b Bounds) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return b.Min
	}
	return math.Min(b.Max, math.Max(b.Min, v))
}
