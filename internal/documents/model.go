// Package documents manages quotations and bills: drafts, persistence,
// previews and PDF export.
package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quotebill/quotebill/internal/billing"
)

// DateLayout is the wire and storage format of document dates.
const DateLayout = "2006-01-02"

// Status is the lifecycle state of a document.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"

	StatusUnpaid    Status = "unpaid"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

var kindStatuses = map[billing.Kind][]Status{
	billing.KindQuotation: {StatusDraft, StatusSent, StatusAccepted, StatusRejected},
	billing.KindBill:      {StatusUnpaid, StatusPaid, StatusOverdue, StatusCancelled},
}

// Statuses lists the statuses of kind; the first is the default.
func Statuses(kind billing.Kind) []Status {
	return kindStatuses[kind]
}

// DefaultStatus returns the initial status for kind.
func DefaultStatus(kind billing.Kind) Status {
	if s := kindStatuses[kind]; len(s) > 0 {
		return s[0]
	}
	return ""
}

// ValidStatus reports whether s belongs to kind.
func ValidStatus(kind billing.Kind, s Status) bool {
	for _, candidate := range kindStatuses[kind] {
		if candidate == s {
			return true
		}
	}
	return false
}

// Date is a calendar day encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("documents: date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// Document is a quotation or a bill. The two kinds share every field; only
// the status set and number prefix differ.
type Document struct {
	ID             uuid.UUID          `json:"id"`
	UserID         uuid.UUID          `json:"userId"`
	Kind           billing.Kind       `json:"kind"`
	Number         string             `json:"number"`
	CompanyName    string             `json:"companyName"`
	CompanyAddress string             `json:"companyAddress"`
	CompanyPhone   string             `json:"companyPhone"`
	CompanyEmail   string             `json:"companyEmail"`
	ClientName     string             `json:"clientName"`
	ClientAddress  string             `json:"clientAddress"`
	IssueDate      Date               `json:"issueDate"`
	DueDate        Date               `json:"dueDate"`
	Items          []billing.LineItem `json:"items"`
	Terms          string             `json:"terms"`
	Notes          string             `json:"notes"`
	Signature      string             `json:"signature"`
	Status         Status             `json:"status"`
	billing.Totals
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Recalculate refreshes the totals snapshot from the items.
func (d *Document) Recalculate() {
	d.Totals = billing.CalculateTotals(d.Items)
}

// AddItem appends an empty row and returns its id.
func (d *Document) AddItem() int64 {
	id := billing.NextItemID(d.Items)
	d.Items = append(d.Items, billing.LineItem{
		ID:           id,
		Quantity:     1,
		DiscountType: billing.DiscountPercentage,
	})
	d.Recalculate()
	return id
}

// RemoveItem drops the row with id. It reports whether a row was removed.
func (d *Document) RemoveItem(id int64) bool {
	for i, it := range d.Items {
		if it.ID == id {
			d.Items = append(d.Items[:i:i], d.Items[i+1:]...)
			d.Recalculate()
			return true
		}
	}
	return false
}

// UpdateItem applies fn to the row with id and refreshes totals.
func (d *Document) UpdateItem(id int64, fn func(*billing.LineItem)) bool {
	for i := range d.Items {
		if d.Items[i].ID == id {
			fn(&d.Items[i])
			d.Recalculate()
			return true
		}
	}
	return false
}

// ListItem is the projection returned by list endpoints.
type ListItem struct {
	ID         uuid.UUID `json:"id"`
	Number     string    `json:"number"`
	ClientName string    `json:"clientName"`
	IssueDate  Date      `json:"issueDate"`
	Total      float64   `json:"total"`
	Status     Status    `json:"status"`
}

// ListResult is one page of documents.
type ListResult struct {
	Items []ListItem `json:"items"`
	Total int        `json:"total"`
}
