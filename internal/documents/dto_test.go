package documents

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotebill/quotebill/internal/billing"
	"github.com/quotebill/quotebill/internal/platform/httpx"
)

func TestSaveRequestRules(t *testing.T) {
	req := SaveRequest{Items: []ItemRequest{
		{ID: 1, Discount: 100},
		{ID: 1, Discount: 101},
		{ID: 2, Discount: 5000, DiscountType: billing.DiscountAmount},
	}}
	err := req.checkRules(billing.KindBill)
	require.Error(t, err)

	var verr *httpx.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"items[1].discount": "must be at most 100 for percentage discounts",
		"items[1].id":       "must be unique within the document",
	}, verr.Fields)
}

func TestSaveRequestLineItems(t *testing.T) {
	req := SaveRequest{Items: []ItemRequest{
		{ID: 4, Description: "a", Quantity: 1, Rate: 10},
		{Description: "b", Quantity: 2, Rate: 5, DiscountType: billing.DiscountAmount, Discount: 1},
		{Description: "c"},
	}}
	items := req.lineItems()
	require.Len(t, items, 3)
	assert.Equal(t, []int64{4, 5, 6}, []int64{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, billing.DiscountPercentage, items[0].DiscountType)
	assert.Equal(t, billing.DiscountAmount, items[1].DiscountType)
}

func TestSaveRequestIgnoresSnapshotFields(t *testing.T) {
	req := SaveRequest{
		IssueDate: "2024-01-01",
		DueDate:   "2024-01-16",
		Items:     []ItemRequest{{ID: 1, Quantity: 3, Rate: 10, Discount: 50}},
	}
	doc, err := req.toDocument(billing.KindQuotation)
	require.NoError(t, err)
	assert.Equal(t, billing.Totals{Subtotal: 30, TotalDiscount: 15, Total: 15}, doc.Totals)
	assert.Equal(t, "2024-01-16", doc.DueDate.String())
}
