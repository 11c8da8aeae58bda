package documents

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/quotebill/quotebill/internal/billing"
	"github.com/quotebill/quotebill/internal/settings"
)

const previewDateLayout = "02/01/2006"

// PreviewOptions toggles the optional sections of a printed document.
type PreviewOptions struct {
	ShowDiscount      bool `json:"showDiscount"`
	ShowTerms         bool `json:"showTerms"`
	ShowNotes         bool `json:"showNotes"`
	ShowFinancialInfo bool `json:"showFinancialInfo"`
}

// DefaultPreviewOptions shows every section.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{ShowDiscount: true, ShowTerms: true, ShowNotes: true, ShowFinancialInfo: true}
}

// PreviewLine is one rendered item row.
type PreviewLine struct {
	Position    int    `json:"position"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	Discount    string `json:"discount,omitempty"`
	Amount      string `json:"amount"`
}

// Preview is the view model shared by the JSON preview and the PDF template.
type Preview struct {
	Kind            billing.Kind   `json:"kind"`
	Title           string         `json:"title"`
	Number          string         `json:"number"`
	IssueDate       string         `json:"issueDate"`
	DueDate         string         `json:"dueDate"`
	Status          Status         `json:"status"`
	CompanyName     string         `json:"companyName"`
	CompanyAddress  string         `json:"companyAddress"`
	CompanyPhone    string         `json:"companyPhone"`
	CompanyEmail    string         `json:"companyEmail"`
	CompanyInitials string         `json:"companyInitials"`
	LogoURL         string         `json:"logoUrl,omitempty"`
	ClientName      string         `json:"clientName"`
	ClientAddress   string         `json:"clientAddress"`
	CurrencySymbol  string         `json:"currencySymbol"`
	Lines           []PreviewLine  `json:"lines"`
	Options         PreviewOptions `json:"options"`

	FormattedSubtotal string `json:"formattedSubtotal"`
	FormattedDiscount string `json:"formattedDiscount"`
	FormattedTotal    string `json:"formattedTotal"`
	ShowDiscountRow   bool   `json:"showDiscountRow"`
	TotalInWords      string `json:"totalInWords"`

	Terms       string `json:"terms,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Signature   string `json:"signature,omitempty"`
	TaxNumber   string `json:"taxNumber,omitempty"`
	BankDetails string `json:"bankDetails,omitempty"`
}

// Presenter renders documents for display.
type Presenter struct {
	Speller        billing.Speller
	CurrencySymbol string
	WordsSuffix    string
}

// NewPresenter builds a Presenter. Empty symbol or suffix fall back to
// "Rs." and "Rupees Only".
func NewPresenter(symbol, wordsSuffix string, legacyCents bool) Presenter {
	if symbol == "" {
		symbol = "Rs."
	}
	if wordsSuffix == "" {
		wordsSuffix = "Rupees Only"
	}
	return Presenter{
		Speller:        billing.Speller{LegacyCentsJoin: legacyCents},
		CurrencySymbol: symbol,
		WordsSuffix:    wordsSuffix,
	}
}

var kindTitles = map[billing.Kind]string{
	billing.KindQuotation: "Quotation",
	billing.KindBill:      "Bill",
}

// Build computes the preview of doc. Totals are recomputed from the items;
// the stored snapshot is ignored. company supplies logo, signature and
// financial details.
func (p Presenter) Build(doc Document, company settings.Settings, opts PreviewOptions) Preview {
	totals := billing.CalculateTotals(doc.Items)
	shown := totals.Subtotal
	if opts.ShowDiscount {
		shown = totals.Total
	}

	pv := Preview{
		Kind:              doc.Kind,
		Title:             kindTitles[doc.Kind],
		Number:            doc.Number,
		IssueDate:         formatPreviewDate(doc.IssueDate),
		DueDate:           formatPreviewDate(doc.DueDate),
		Status:            doc.Status,
		CompanyName:       doc.CompanyName,
		CompanyAddress:    doc.CompanyAddress,
		CompanyPhone:      doc.CompanyPhone,
		CompanyEmail:      doc.CompanyEmail,
		CompanyInitials:   initials(doc.CompanyName),
		LogoURL:           company.LogoURL,
		ClientName:        doc.ClientName,
		ClientAddress:     doc.ClientAddress,
		CurrencySymbol:    p.CurrencySymbol,
		Lines:             make([]PreviewLine, 0, len(doc.Items)),
		Options:           opts,
		FormattedSubtotal: billing.FormatCurrency(totals.Subtotal),
		FormattedDiscount: billing.FormatCurrency(totals.TotalDiscount),
		FormattedTotal:    billing.FormatCurrency(shown),
		ShowDiscountRow:   opts.ShowDiscount && totals.TotalDiscount > 0,
		TotalInWords:      strings.TrimSpace(p.Speller.Words(shown) + " " + p.WordsSuffix),
		Signature:         doc.Signature,
	}
	if company.SignatureURL != "" {
		pv.Signature = company.SignatureURL
	}
	if opts.ShowTerms {
		pv.Terms = doc.Terms
	}
	if opts.ShowNotes {
		pv.Notes = doc.Notes
	}
	if opts.ShowFinancialInfo {
		pv.TaxNumber = company.TaxNumber
		pv.BankDetails = company.BankDetails
	}

	for i, it := range doc.Items {
		line := PreviewLine{
			Position:    i + 1,
			Description: it.Description,
			Quantity:    formatPlain(it.Quantity),
			Rate:        billing.FormatCurrency(it.Rate),
			Amount:      billing.FormatCurrency(it.Gross()),
		}
		if line.Description == "" {
			line.Description = "Item " + strconv.Itoa(i+1)
		}
		if opts.ShowDiscount {
			line.Amount = billing.FormatCurrency(it.Net())
			if it.Mode() == billing.DiscountAmount {
				line.Discount = p.CurrencySymbol + " " + billing.FormatCurrency(it.Discount)
			} else {
				line.Discount = formatPlain(it.Discount) + "%"
			}
		}
		pv.Lines = append(pv.Lines, line)
	}
	return pv
}

func formatPreviewDate(d Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(previewDateLayout)
}

func formatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// initials returns the first two characters of name, upper-cased.
func initials(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > 2 {
		r := []rune(name)
		name = string(r[:2])
	}
	return strings.ToUpper(name)
}
