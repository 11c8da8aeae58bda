package documents

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quotebill/quotebill/internal/billing"
	"github.com/quotebill/quotebill/internal/settings"
	"github.com/quotebill/quotebill/internal/shared"
)

type memRepository struct {
	mu   sync.Mutex
	docs map[uuid.UUID]Document

	taken       map[string]bool
	existsErr   error
	existsCalls int
	dupInserts  int
	inserts     int
	overdueDay  Date
	overdueRows int64
}

func newMemRepository() *memRepository {
	return &memRepository{docs: make(map[uuid.UUID]Document), taken: make(map[string]bool)}
}

func numberKey(kind billing.Kind, number string) string {
	return string(kind) + "/" + number
}

func (m *memRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *memRepository) NumberExists(ctx context.Context, kind billing.Kind, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsCalls++
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.taken[numberKey(kind, number)], nil
}

func (m *memRepository) Insert(ctx context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserts++
	if m.dupInserts > 0 {
		m.dupInserts--
		return ErrDuplicateNumber
	}
	if m.taken[numberKey(doc.Kind, doc.Number)] {
		return ErrDuplicateNumber
	}
	m.taken[numberKey(doc.Kind, doc.Number)] = true
	doc.Items = nil
	m.docs[doc.ID] = doc
	return nil
}

func (m *memRepository) UpdateHeader(ctx context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.docs[doc.ID]
	if !ok || current.UserID != doc.UserID || current.Kind != doc.Kind {
		return ErrNotFound
	}
	if current.Number != doc.Number {
		if m.taken[numberKey(doc.Kind, doc.Number)] {
			return ErrDuplicateNumber
		}
		delete(m.taken, numberKey(doc.Kind, current.Number))
		m.taken[numberKey(doc.Kind, doc.Number)] = true
	}
	doc.Items = current.Items
	m.docs[doc.ID] = doc
	return nil
}

func (m *memRepository) ReplaceItems(ctx context.Context, kind billing.Kind, docID uuid.UUID, items []billing.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[docID]
	if !ok {
		return ErrNotFound
	}
	doc.Items = append([]billing.LineItem(nil), items...)
	m.docs[docID] = doc
	return nil
}

func (m *memRepository) Get(ctx context.Context, kind billing.Kind, userID, id uuid.UUID) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok || doc.UserID != userID || doc.Kind != kind {
		return Document{}, ErrNotFound
	}
	doc.Items = append([]billing.LineItem(nil), doc.Items...)
	return doc, nil
}

func (m *memRepository) List(ctx context.Context, kind billing.Kind, userID uuid.UUID, page shared.Pagination) ([]ListItem, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []Document
	for _, doc := range m.docs {
		if doc.UserID == userID && doc.Kind == kind {
			all = append(all, doc)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	out := []ListItem{}
	for i := page.Offset(); i < len(all) && len(out) < page.PerPage; i++ {
		d := all[i]
		out = append(out, ListItem{ID: d.ID, Number: d.Number, ClientName: d.ClientName, IssueDate: d.IssueDate, Total: d.Total, Status: d.Status})
	}
	return out, len(all), nil
}

func (m *memRepository) Delete(ctx context.Context, kind billing.Kind, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok || doc.UserID != userID || doc.Kind != kind {
		return ErrNotFound
	}
	delete(m.taken, numberKey(kind, doc.Number))
	delete(m.docs, id)
	return nil
}

func (m *memRepository) UpdateStatus(ctx context.Context, kind billing.Kind, userID, id uuid.UUID, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok || doc.UserID != userID || doc.Kind != kind {
		return ErrNotFound
	}
	doc.Status = status
	m.docs[id] = doc
	return nil
}

func (m *memRepository) MarkOverdue(ctx context.Context, today Date) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overdueDay = today
	var n int64
	for id, doc := range m.docs {
		if doc.Kind == billing.KindBill && doc.Status == StatusUnpaid && doc.DueDate.Before(today.Time) {
			doc.Status = StatusOverdue
			m.docs[id] = doc
			n++
		}
	}
	m.overdueRows = n
	return n, nil
}

type stubSettings struct {
	value settings.Settings
	err   error
}

func (s stubSettings) Load(ctx context.Context, userID uuid.UUID) (settings.Settings, error) {
	if s.err != nil {
		return settings.Settings{}, s.err
	}
	return s.value, nil
}

type recordedMetrics struct {
	mu        sync.Mutex
	saved     []string
	reissued  int
	pdfErrors int
	pdfOK     int
}

func (r *recordedMetrics) DocumentSaved(kind, op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, kind+":"+op)
}

func (r *recordedMetrics) NumberReissued(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reissued++
}

func (r *recordedMetrics) PDFRendered(kind string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.pdfErrors++
		return
	}
	r.pdfOK++
}

// sequence returns a random source yielding the given offsets in order and
// then repeating the last one.
func sequence(values ...int) func(int) int {
	i := 0
	return func(int) int {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

var errBoom = errors.New("boom")

var fixedNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func customSettings() settings.Settings {
	s := settings.Defaults()
	s.ID = uuid.New()
	s.CompanyName = "Chill Masters"
	s.CompanyAddress = "12 Frost Lane"
	s.CompanyPhone = "+94 77 000 0000"
	s.CompanyEmail = "hello@chill.example"
	s.DefaultTerms = "Net 7."
	s.DefaultNotes = "Thanks!"
	s.TaxNumber = "VAT-42"
	s.BankDetails = "Bank of Ice 0001"
	return s
}

func newTestService(repo *memRepository, loader SettingsLoader, opts ...Option) *Service {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithNumberGenerator(billing.NewNumberGenerator(repo, billing.WithRandom(sequence(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)))),
	}
	return NewService(repo, loader, NewPresenter("", "", false), discardLogger(), append(base, opts...)...)
}

func sampleRequest() SaveRequest {
	return SaveRequest{
		Number:       "BILL-555555",
		CompanyName:  "Chill Masters",
		ClientName:   "Studio Den",
		IssueDate:    "2024-03-10",
		DueDate:      "2024-03-25",
		Terms:        "Net 7.",
		Notes:        "Thanks!",
		Items: []ItemRequest{
			{ID: 1, Description: "Gas refill", Quantity: 2, Rate: 1500, Discount: 10, DiscountType: billing.DiscountPercentage},
			{ID: 2, Description: "Service visit", Quantity: 1, Rate: 500, Discount: 100, DiscountType: billing.DiscountAmount},
		},
	}
}
