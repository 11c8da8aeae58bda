package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quotebill/quotebill/internal/billing"
	"github.com/quotebill/quotebill/internal/platform/httpx"
	"github.com/quotebill/quotebill/internal/settings"
	"github.com/quotebill/quotebill/internal/shared"
)

// maxInsertAttempts bounds inserts that race another writer for a number.
const maxInsertAttempts = 3

// SettingsLoader supplies the company defaults of a user.
type SettingsLoader interface {
	Load(ctx context.Context, userID uuid.UUID) (settings.Settings, error)
}

// Recorder receives document metrics. Methods must be safe on a nil receiver.
type Recorder interface {
	DocumentSaved(kind, op string)
	NumberReissued(kind string)
	PDFRendered(kind string, err error)
}

// Service implements the quotation and bill use cases.
type Service struct {
	repo      Repository
	numbers   *billing.NumberGenerator
	settings  SettingsLoader
	presenter Presenter
	exporter  *PDFExporter
	metrics   Recorder
	logger    *slog.Logger
	validate  *validator.Validate
	now       func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithExporter enables PDF export.
func WithExporter(e *PDFExporter) Option { return func(s *Service) { s.exporter = e } }

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option { return func(s *Service) { s.metrics = r } }

// WithNumberGenerator replaces the generator built on the repository.
func WithNumberGenerator(g *billing.NumberGenerator) Option {
	return func(s *Service) { s.numbers = g }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService wires the service. The repository doubles as the number
// existence checker.
func NewService(repo Repository, loader SettingsLoader, presenter Presenter, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:      repo,
		numbers:   billing.NewNumberGenerator(repo),
		settings:  loader,
		presenter: presenter,
		logger:    logger,
		validate:  shared.NewValidator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func checkKind(kind billing.Kind) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	return nil
}

func (s *Service) loadSettings(ctx context.Context, userID uuid.UUID) settings.Settings {
	loaded, err := s.settings.Load(ctx, userID)
	if err != nil {
		s.logger.Warn("load settings for document", slog.String("user_id", userID.String()), slog.Any("error", err))
		fallback := settings.Defaults()
		fallback.UserID = userID
		return fallback
	}
	return loaded
}

// NewDraft returns an unsaved, settings-hydrated document of kind.
func (s *Service) NewDraft(ctx context.Context, userID uuid.UUID, kind billing.Kind) (Document, error) {
	if err := checkKind(kind); err != nil {
		return Document{}, err
	}
	doc := NewDraft(kind, s.loadSettings(ctx, userID), s.now(), s.numbers)
	doc.UserID = userID
	return doc, nil
}

func (s *Service) prepare(kind billing.Kind, req SaveRequest) (Document, error) {
	if err := checkKind(kind); err != nil {
		return Document{}, err
	}
	if err := shared.ValidateStruct(s.validate, req); err != nil {
		return Document{}, fmt.Errorf("documents: %w", err)
	}
	if err := req.checkRules(kind); err != nil {
		return Document{}, fmt.Errorf("documents: %w", err)
	}
	return req.toDocument(kind)
}

// Create saves a new document. The client's number is kept when free and
// replaced otherwise; an insert that loses a race for the number is retried
// with a fresh one.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, kind billing.Kind, req SaveRequest) (Document, error) {
	doc, err := s.prepare(kind, req)
	if err != nil {
		return Document{}, err
	}
	doc.ID = uuid.New()
	doc.UserID = userID
	if doc.Status == "" {
		doc.Status = DefaultStatus(kind)
	}
	doc.CreatedAt = s.now().UTC()
	doc.UpdatedAt = doc.CreatedAt

	number, err := s.numbers.Resolve(ctx, kind, doc.Number)
	if err != nil {
		return Document{}, fmt.Errorf("documents: resolve number: %w", err)
	}
	if req.Number != "" && number != req.Number {
		s.reissued(kind, req.Number, number)
	}
	doc.Number = number

	for attempt := 1; ; attempt++ {
		err = s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
			if err := tx.Insert(ctx, doc); err != nil {
				return err
			}
			return tx.ReplaceItems(ctx, kind, doc.ID, doc.Items)
		})
		if !errors.Is(err, ErrDuplicateNumber) || attempt == maxInsertAttempts {
			break
		}
		previous := doc.Number
		doc.Number, err = s.numbers.GenerateUnique(ctx, kind)
		if err != nil {
			return Document{}, fmt.Errorf("documents: regenerate number: %w", err)
		}
		s.reissued(kind, previous, doc.Number)
	}
	if err != nil {
		return Document{}, err
	}
	s.saved(kind, "create")
	return doc, nil
}

// Update overwrites the header and items of a saved document. The number
// and status are kept when the request leaves them empty.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, kind billing.Kind, id uuid.UUID, req SaveRequest) (Document, error) {
	doc, err := s.prepare(kind, req)
	if err != nil {
		return Document{}, err
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		current, err := tx.Get(ctx, kind, userID, id)
		if err != nil {
			return err
		}
		doc.ID = current.ID
		doc.UserID = userID
		doc.CreatedAt = current.CreatedAt
		doc.UpdatedAt = s.now().UTC()
		if doc.Number == "" {
			doc.Number = current.Number
		}
		if doc.Status == "" {
			doc.Status = current.Status
		}
		if err := tx.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		return tx.ReplaceItems(ctx, kind, doc.ID, doc.Items)
	})
	if err != nil {
		return Document{}, err
	}
	s.saved(kind, "update")
	return doc, nil
}

// Get returns a saved document owned by userID.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, kind billing.Kind, id uuid.UUID) (Document, error) {
	if err := checkKind(kind); err != nil {
		return Document{}, err
	}
	return s.repo.Get(ctx, kind, userID, id)
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, kind billing.Kind, page shared.Pagination) (ListResult, shared.Pagination, error) {
	if err := checkKind(kind); err != nil {
		return ListResult{}, page, err
	}
	items, total, err := s.repo.List(ctx, kind, userID, page)
	if err != nil {
		return ListResult{}, page, err
	}
	return ListResult{Items: items, Total: total}, shared.NewPagination(page.Page, page.PerPage, total), nil
}

// Delete removes a document and its items.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, kind billing.Kind, id uuid.UUID) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		return tx.Delete(ctx, kind, userID, id)
	})
	if err != nil {
		return err
	}
	s.saved(kind, "delete")
	return nil
}

// SetStatus moves a document to status.
func (s *Service) SetStatus(ctx context.Context, userID uuid.UUID, kind billing.Kind, id uuid.UUID, req StatusRequest) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	if !ValidStatus(kind, req.Status) {
		return fmt.Errorf("documents: %w", httpx.NewValidationError("status", fmt.Sprintf("must be one of %v", Statuses(kind))))
	}
	if err := s.repo.UpdateStatus(ctx, kind, userID, id, req.Status); err != nil {
		return err
	}
	s.saved(kind, "status")
	return nil
}

// PreviewDraft computes the preview of an unsaved document.
func (s *Service) PreviewDraft(ctx context.Context, userID uuid.UUID, kind billing.Kind, req SaveRequest, opts PreviewOptions) (Preview, error) {
	doc, err := s.prepare(kind, req)
	if err != nil {
		return Preview{}, err
	}
	if doc.Status == "" {
		doc.Status = DefaultStatus(kind)
	}
	return s.presenter.Build(doc, s.loadSettings(ctx, userID), opts), nil
}

// Preview computes the preview of a saved document.
func (s *Service) Preview(ctx context.Context, userID uuid.UUID, kind billing.Kind, id uuid.UUID, opts PreviewOptions) (Preview, Document, error) {
	doc, err := s.Get(ctx, userID, kind, id)
	if err != nil {
		return Preview{}, Document{}, err
	}
	return s.presenter.Build(doc, s.loadSettings(ctx, userID), opts), doc, nil
}

// PDF renders a saved document as PDF.
func (s *Service) PDF(ctx context.Context, userID uuid.UUID, kind billing.Kind, id uuid.UUID, opts PreviewOptions) ([]byte, Document, error) {
	pv, doc, err := s.Preview(ctx, userID, kind, id, opts)
	if err != nil {
		return nil, Document{}, err
	}
	pdf, err := s.exporter.PDF(ctx, pv)
	if s.metrics != nil {
		s.metrics.PDFRendered(string(kind), err)
	}
	if err != nil {
		return nil, Document{}, err
	}
	return pdf, doc, nil
}

// MarkOverdue flags unpaid bills whose due date has passed.
func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkOverdue(ctx, NewDate(s.now()))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("bills marked overdue", slog.Int64("count", n))
	}
	return n, nil
}

func (s *Service) saved(kind billing.Kind, op string) {
	if s.metrics != nil {
		s.metrics.DocumentSaved(string(kind), op)
	}
}

func (s *Service) reissued(kind billing.Kind, from, to string) {
	s.logger.Info("document number reissued", slog.String("kind", string(kind)), slog.String("from", from), slog.String("to", to))
	if s.metrics != nil {
		s.metrics.NumberReissued(string(kind))
	}
}
