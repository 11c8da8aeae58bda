package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotebill/quotebill/internal/billing"
	"github.com/quotebill/quotebill/internal/settings"
)

func previewDocument() Document {
	issue, _ := ParseDate("2024-03-10")
	due, _ := ParseDate("2024-03-25")
	return Document{
		Kind:        billing.KindBill,
		Number:      "BILL-123456",
		CompanyName: "chill masters",
		IssueDate:   issue,
		DueDate:     due,
		Items: []billing.LineItem{
			{ID: 1, Description: "Gas refill", Quantity: 2, Rate: 1500, Discount: 10, DiscountType: billing.DiscountPercentage},
			{ID: 2, Quantity: 1, Rate: 500.5, Discount: 100, DiscountType: billing.DiscountAmount},
		},
		Terms: "Net 7.",
		Notes: "Thanks!",
		// Stale snapshot; previews recompute.
		Totals: billing.Totals{Subtotal: 1, TotalDiscount: 1, Total: 1},
	}
}

func TestPreviewWithDiscount(t *testing.T) {
	p := NewPresenter("", "", false)
	pv := p.Build(previewDocument(), customSettings(), DefaultPreviewOptions())

	assert.Equal(t, "Bill", pv.Title)
	assert.Equal(t, "10/03/2024", pv.IssueDate)
	assert.Equal(t, "25/03/2024", pv.DueDate)
	assert.Equal(t, "CH", pv.CompanyInitials)
	assert.Equal(t, "3,500.50", pv.FormattedSubtotal)
	assert.Equal(t, "400.00", pv.FormattedDiscount)
	assert.Equal(t, "3,100.50", pv.FormattedTotal)
	assert.True(t, pv.ShowDiscountRow)
	assert.Equal(t, "Three Thousand One Hundred and Fifty Cents Rupees Only", pv.TotalInWords)

	require.Len(t, pv.Lines, 2)
	assert.Equal(t, PreviewLine{Position: 1, Description: "Gas refill", Quantity: "2", Rate: "1,500.00", Discount: "10%", Amount: "2,700.00"}, pv.Lines[0])
	assert.Equal(t, PreviewLine{Position: 2, Description: "Item 2", Quantity: "1", Rate: "500.50", Discount: "Rs. 100.00", Amount: "400.50"}, pv.Lines[1])

	assert.Equal(t, "Net 7.", pv.Terms)
	assert.Equal(t, "Thanks!", pv.Notes)
	assert.Equal(t, "VAT-42", pv.TaxNumber)
}

func TestPreviewWithoutDiscount(t *testing.T) {
	p := NewPresenter("Rs.", "Rupees Only", false)
	opts := PreviewOptions{ShowDiscount: false, ShowTerms: false, ShowNotes: true}
	pv := p.Build(previewDocument(), settings.Defaults(), opts)

	assert.Equal(t, "3,500.50", pv.FormattedTotal)
	assert.False(t, pv.ShowDiscountRow)
	assert.Equal(t, "Three Thousand Five Hundred and Fifty Cents Rupees Only", pv.TotalInWords)
	assert.Empty(t, pv.Lines[0].Discount)
	assert.Equal(t, "3,000.00", pv.Lines[0].Amount)
	assert.Empty(t, pv.Terms)
	assert.Equal(t, "Thanks!", pv.Notes)
	assert.Empty(t, pv.TaxNumber)
}

func TestPreviewDiscountRowHiddenWhenNothingDiscounted(t *testing.T) {
	doc := previewDocument()
	doc.Items = []billing.LineItem{{ID: 1, Description: "Visit", Quantity: 1, Rate: 100}}
	pv := NewPresenter("", "", false).Build(doc, settings.Defaults(), DefaultPreviewOptions())

	assert.False(t, pv.ShowDiscountRow)
	assert.Equal(t, "0%", pv.Lines[0].Discount)
	assert.Equal(t, "One Hundred Rupees Only", pv.TotalInWords)
}

func TestPreviewLegacyWordsAndNegativeTotals(t *testing.T) {
	doc := previewDocument()
	doc.Items = []billing.LineItem{{ID: 1, Quantity: 1, Rate: 10.5}}

	legacy := NewPresenter("", "", true).Build(doc, settings.Defaults(), DefaultPreviewOptions())
	assert.Equal(t, "Ten and FiftyCents Rupees Only", legacy.TotalInWords)

	doc.Items[0].DiscountType = billing.DiscountAmount
	doc.Items[0].Discount = 20.5
	pv := NewPresenter("", "", false).Build(doc, settings.Defaults(), DefaultPreviewOptions())
	assert.Equal(t, "-10.00", pv.FormattedTotal)
	assert.Equal(t, "Minus Ten Rupees Only", pv.TotalInWords)
}

func TestPreviewSignaturePrefersSettings(t *testing.T) {
	doc := previewDocument()
	doc.Signature = "data:image/png;base64,AAAA"

	pv := NewPresenter("", "", false).Build(doc, settings.Defaults(), DefaultPreviewOptions())
	assert.Equal(t, "data:image/png;base64,AAAA", pv.Signature)

	company := customSettings()
	company.SignatureURL = "https://cdn.example/sig.png"
	pv = NewPresenter("", "", false).Build(doc, company, DefaultPreviewOptions())
	assert.Equal(t, "https://cdn.example/sig.png", pv.Signature)
}
