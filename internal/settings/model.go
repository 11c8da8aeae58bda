// Package settings stores per-user company settings used to pre-fill new
// quotations and bills.
package settings

import (
	"time"

	"github.com/google/uuid"
)

// Placeholder values shown until the user saves real company details.
const (
	PlaceholderCompanyName    = "<your-company-name>"
	PlaceholderCompanyAddress = "<your-company-address>"
	PlaceholderCompanyPhone   = "<your-company-mobile-no>"
	PlaceholderCompanyEmail   = "<your-company-email>"
	PlaceholderCompanyWebsite = "<your-company-web>"
)

const defaultTerms = `1. Payment due within 15 days from the date of invoice, overdue interest @ 14% will be charged on delayed payments.

2. Please quote invoice number when remitting funds.

3. All services come with a 30-day warranty from the date of completion.

4. Emergency service calls are subject to additional charges.`

const defaultNotes = `Thank you for choosing our AC repair services. We provide professional air conditioning repair, maintenance, and installation services with experienced technicians and quality parts.

For any technical support or warranty claims, please contact us within the warranty period.`

// Settings is the company profile of one user.
type Settings struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	CompanyName    string    `json:"companyName"`
	CompanyAddress string    `json:"companyAddress"`
	CompanyPhone   string    `json:"companyPhone"`
	CompanyEmail   string    `json:"companyEmail"`
	CompanyWebsite string    `json:"companyWebsite"`
	LogoURL        string    `json:"logoUrl"`
	SignatureURL   string    `json:"signatureUrl"`
	DefaultTerms   string    `json:"defaultTerms"`
	DefaultNotes   string    `json:"defaultNotes"`
	TaxNumber      string    `json:"taxNumber"`
	BankDetails    string    `json:"bankDetails"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Defaults returns the settings used when a user has not saved any.
func Defaults() Settings {
	return Settings{
		CompanyName:    PlaceholderCompanyName,
		CompanyAddress: PlaceholderCompanyAddress,
		CompanyPhone:   PlaceholderCompanyPhone,
		CompanyEmail:   PlaceholderCompanyEmail,
		CompanyWebsite: PlaceholderCompanyWebsite,
		DefaultTerms:   defaultTerms,
		DefaultNotes:   defaultNotes,
	}
}

// Stored reports whether s was loaded from a saved row.
func (s Settings) Stored() bool {
	return s.ID != uuid.Nil
}

// SaveRequest is the payload accepted by PUT /api/settings.
type SaveRequest struct {
	CompanyName    string `json:"companyName" validate:"max=200"`
	CompanyAddress string `json:"companyAddress" validate:"max=1000"`
	CompanyPhone   string `json:"companyPhone" validate:"max=50"`
	CompanyEmail   string `json:"companyEmail" validate:"max=200"`
	CompanyWebsite string `json:"companyWebsite" validate:"max=500"`
	LogoURL        string `json:"logoUrl" validate:"max=2048"`
	SignatureURL   string `json:"signatureUrl" validate:"max=524288"`
	DefaultTerms   string `json:"defaultTerms" validate:"max=10000"`
	DefaultNotes   string `json:"defaultNotes" validate:"max=10000"`
	TaxNumber      string `json:"taxNumber" validate:"max=100"`
	BankDetails    string `json:"bankDetails" validate:"max=2000"`
}

func (r SaveRequest) apply(s Settings) Settings {
	s.CompanyName = r.CompanyName
	s.CompanyAddress = r.CompanyAddress
	s.CompanyPhone = r.CompanyPhone
	s.CompanyEmail = r.CompanyEmail
	s.CompanyWebsite = r.CompanyWebsite
	s.LogoURL = r.LogoURL
	s.SignatureURL = r.SignatureURL
	s.DefaultTerms = r.DefaultTerms
	s.DefaultNotes = r.DefaultNotes
	s.TaxNumber = r.TaxNumber
	s.BankDetails = r.BankDetails
	return s
}
