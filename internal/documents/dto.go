package documents

import (
	"fmt"

	"github.com/quotebill/quotebill/internal/billing"
	"github.com/quotebill/quotebill/internal/platform/httpx"
)

// ItemRequest is one line item as sent by the client.
type ItemRequest struct {
	ID           int64                `json:"id" validate:"gte=0"`
	Description  string               `json:"description" validate:"max=1000"`
	Quantity     float64              `json:"quantity" validate:"gte=0"`
	Rate         float64              `json:"rate" validate:"gte=0"`
	Discount     float64              `json:"discount" validate:"gte=0"`
	DiscountType billing.DiscountType `json:"discountType" validate:"omitempty,oneof=percentage amount"`
}

// SaveRequest is the payload for creating or updating a document. Totals
// are never accepted from the client.
type SaveRequest struct {
	Number         string        `json:"number" validate:"max=32"`
	CompanyName    string        `json:"companyName" validate:"max=200"`
	CompanyAddress string        `json:"companyAddress" validate:"max=1000"`
	CompanyPhone   string        `json:"companyPhone" validate:"max=50"`
	CompanyEmail   string        `json:"companyEmail" validate:"max=200"`
	ClientName     string        `json:"clientName" validate:"max=200"`
	ClientAddress  string        `json:"clientAddress" validate:"max=1000"`
	IssueDate      string        `json:"issueDate" validate:"required,datetime=2006-01-02"`
	DueDate        string        `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Items          []ItemRequest `json:"items" validate:"max=500,dive"`
	Terms          string        `json:"terms" validate:"max=10000"`
	Notes          string        `json:"notes" validate:"max=10000"`
	Signature      string        `json:"signature" validate:"max=524288"`
	Status         Status        `json:"status"`
}

// StatusRequest changes the status of a saved document.
type StatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

// checkRules enforces the rules that depend on the kind or on sibling fields.
func (r SaveRequest) checkRules(kind billing.Kind) error {
	fields := make(map[string]string)
	if r.Status != "" && !ValidStatus(kind, r.Status) {
		fields["status"] = fmt.Sprintf("must be one of %v", Statuses(kind))
	}
	seen := make(map[int64]bool, len(r.Items))
	for i, it := range r.Items {
		mode := it.DiscountType
		if mode == "" {
			mode = billing.DiscountPercentage
		}
		if mode == billing.DiscountPercentage && it.Discount > 100 {
			fields[fmt.Sprintf("items[%d].discount", i)] = "must be at most 100 for percentage discounts"
		}
		if it.ID > 0 {
			if seen[it.ID] {
				fields[fmt.Sprintf("items[%d].id", i)] = "must be unique within the document"
			}
			seen[it.ID] = true
		}
	}
	if len(fields) > 0 {
		return &httpx.ValidationError{Fields: fields}
	}
	return nil
}

// lineItems converts the request rows, assigning ids to rows sent without one.
func (r SaveRequest) lineItems() []billing.LineItem {
	items := make([]billing.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		mode := it.DiscountType
		if mode == "" {
			mode = billing.DiscountPercentage
		}
		items = append(items, billing.LineItem{
			ID:           it.ID,
			Description:  it.Description,
			Quantity:     it.Quantity,
			Rate:         it.Rate,
			Discount:     it.Discount,
			DiscountType: mode,
		})
	}
	for i := range items {
		if items[i].ID == 0 {
			items[i].ID = billing.NextItemID(items)
		}
	}
	return items
}

// toDocument builds the document fields carried by the request. Dates must
// already have passed validation.
func (r SaveRequest) toDocument(kind billing.Kind) (Document, error) {
	issue, err := ParseDate(r.IssueDate)
	if err != nil {
		return Document{}, httpx.NewValidationError("issueDate", "must be a date formatted "+DateLayout)
	}
	due, err := ParseDate(r.DueDate)
	if err != nil {
		return Document{}, httpx.NewValidationError("dueDate", "must be a date formatted "+DateLayout)
	}
	doc := Document{
		Kind:           kind,
		Number:         r.Number,
		CompanyName:    r.CompanyName,
		CompanyAddress: r.CompanyAddress,
		CompanyPhone:   r.CompanyPhone,
		CompanyEmail:   r.CompanyEmail,
		ClientName:     r.ClientName,
		ClientAddress:  r.ClientAddress,
		IssueDate:      issue,
		DueDate:        due,
		Items:          r.lineItems(),
		Terms:          r.Terms,
		Notes:          r.Notes,
		Signature:      r.Signature,
		Status:         r.Status,
	}
	doc.Recalculate()
	return doc, nil
}
