package documents

import (
	"time"

	"github.com/quotebill/quotebill/internal/billing"
	"github.com/quotebill/quotebill/internal/settings"
)

// PlaceholderTerms marks a draft whose terms were never edited.
const PlaceholderTerms = "Payment due within 15 days. Service warranty applies for 30 days."

// DefaultDueDays is the gap between issue and due date on a new draft.
const DefaultDueDays = 15

type draftTemplate struct {
	notes       string
	description string
	rate        float64
}

var draftTemplates = map[billing.Kind]draftTemplate{
	billing.KindQuotation: {
		notes:       "Professional AC repair and maintenance services.",
		description: "Default Quotation Item",
		rate:        50,
	},
	billing.KindBill: {
		notes:       "Thank you for choosing our services.",
		description: "Default Bill Item",
		rate:        150,
	},
}

// Numberer issues the unchecked number a draft starts with.
type Numberer interface {
	Generate(kind billing.Kind) string
}

// NewDraft returns an unsaved document carrying placeholder header values and
// one default item, then hydrates it from defaults.
func NewDraft(kind billing.Kind, defaults settings.Settings, now time.Time, numbers Numberer) Document {
	tpl := draftTemplates[kind]
	issue := NewDate(now)
	doc := Document{
		Kind:           kind,
		Number:         numbers.Generate(kind),
		CompanyName:    settings.PlaceholderCompanyName,
		CompanyAddress: settings.PlaceholderCompanyAddress,
		CompanyPhone:   settings.PlaceholderCompanyPhone,
		CompanyEmail:   settings.PlaceholderCompanyEmail,
		IssueDate:      issue,
		DueDate:        Date{issue.AddDate(0, 0, DefaultDueDays)},
		Items: []billing.LineItem{{
			ID:           1,
			Description:  tpl.description,
			Quantity:     1,
			Rate:         tpl.rate,
			DiscountType: billing.DiscountPercentage,
		}},
		Terms:  PlaceholderTerms,
		Notes:  tpl.notes,
		Status: DefaultStatus(kind),
	}
	HydrateDefaults(&doc, defaults)
	doc.Recalculate()
	return doc
}

// Pristine reports whether the header still holds the placeholder values.
func Pristine(doc Document) bool {
	return doc.CompanyName == settings.PlaceholderCompanyName && doc.Terms == PlaceholderTerms
}

// HydrateDefaults copies company identity, terms and notes from defaults
// into doc when doc is pristine. It reports whether anything was applied.
func HydrateDefaults(doc *Document, defaults settings.Settings) bool {
	if !Pristine(*doc) {
		return false
	}
	doc.CompanyName = defaults.CompanyName
	doc.CompanyAddress = defaults.CompanyAddress
	doc.CompanyPhone = defaults.CompanyPhone
	doc.CompanyEmail = defaults.CompanyEmail
	doc.Terms = defaults.DefaultTerms
	doc.Notes = defaults.DefaultNotes
	return true
}
