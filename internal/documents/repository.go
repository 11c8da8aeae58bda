package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quotebill/quotebill/internal/billing"
	"github.com/quotebill/quotebill/internal/platform/db"
	"github.com/quotebill/quotebill/internal/shared"
)

// Repository persists quotations and bills.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	NumberExists(ctx context.Context, kind billing.Kind, number string) (bool, error)
	Insert(ctx context.Context, doc Document) error
	UpdateHeader(ctx context.Context, doc Document) error
	ReplaceItems(ctx context.Context, kind billing.Kind, docID uuid.UUID, items []billing.LineItem) error
	Get(ctx context.Context, kind billing.Kind, userID, id uuid.UUID) (Document, error)
	List(ctx context.Context, kind billing.Kind, userID uuid.UUID, page shared.Pagination) ([]ListItem, int, error)
	Delete(ctx context.Context, kind billing.Kind, userID, id uuid.UUID) error
	UpdateStatus(ctx context.Context, kind billing.Kind, userID, id uuid.UUID, status Status) error
	MarkOverdue(ctx context.Context, today Date) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// tableSet names the tables and columns that differ between kinds.
type tableSet struct {
	docs       string
	items      string
	parent     string
	number     string
	issueDate  string
	constraint string
}

var tables = map[billing.Kind]tableSet{
	billing.KindQuotation: {
		docs:       "quotations",
		items:      "quotation_items",
		parent:     "quotation_id",
		number:     "quotation_number",
		issueDate:  "quotation_date",
		constraint: "quotations_quotation_number_key",
	},
	billing.KindBill: {
		docs:       "bills",
		items:      "bill_items",
		parent:     "bill_id",
		number:     "bill_number",
		issueDate:  "bill_date",
		constraint: "bills_bill_number_key",
	},
}

func tablesFor(kind billing.Kind) (tableSet, error) {
	t, ok := tables[kind]
	if !ok {
		return tableSet{}, ErrUnknownKind
	}
	return t, nil
}

type repository struct {
	db   dbtx
	pool db.TxBeginner
}

// NewRepository returns a Postgres backed Repository. conn is usually a
// *pgxpool.Pool.
func NewRepository(conn interface {
	dbtx
	db.TxBeginner
}) Repository {
	return &repository{db: conn, pool: conn}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx})
	})
}

func (r *repository) NumberExists(ctx context.Context, kind billing.Kind, number string) (bool, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, t.docs, t.number)
	if err := r.db.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("documents: number exists: %w", err)
	}
	return exists, nil
}

func (r *repository) Insert(ctx context.Context, doc Document) error {
	t, err := tablesFor(doc.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (
		id, user_id, %s, company_name, company_address, company_phone, company_email,
		client_name, client_address, %s, due_date, subtotal, total_discount, total_amount,
		terms, notes, signature, status, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)`,
		t.docs, t.number, t.issueDate)
	_, err = r.db.Exec(ctx, query,
		doc.ID, doc.UserID, doc.Number, doc.CompanyName, doc.CompanyAddress, doc.CompanyPhone,
		doc.CompanyEmail, doc.ClientName, doc.ClientAddress, doc.IssueDate.Time, doc.DueDate.Time,
		doc.Subtotal, doc.TotalDiscount, doc.Total, doc.Terms, doc.Notes, doc.Signature,
		string(doc.Status), doc.CreatedAt)
	if db.IsUniqueViolation(err, t.constraint) {
		return ErrDuplicateNumber
	}
	if err != nil {
		return fmt.Errorf("documents: insert %s: %w", doc.Kind, err)
	}
	return nil
}

func (r *repository) UpdateHeader(ctx context.Context, doc Document) error {
	t, err := tablesFor(doc.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET
		%s = $3, company_name = $4, company_address = $5, company_phone = $6, company_email = $7,
		client_name = $8, client_address = $9, %s = $10, due_date = $11, subtotal = $12,
		total_discount = $13, total_amount = $14, terms = $15, notes = $16, signature = $17,
		status = $18, updated_at = $19
	WHERE id = $1 AND user_id = $2`, t.docs, t.number, t.issueDate)
	tag, err := r.db.Exec(ctx, query,
		doc.ID, doc.UserID, doc.Number, doc.CompanyName, doc.CompanyAddress, doc.CompanyPhone,
		doc.CompanyEmail, doc.ClientName, doc.ClientAddress, doc.IssueDate.Time, doc.DueDate.Time,
		doc.Subtotal, doc.TotalDiscount, doc.Total, doc.Terms, doc.Notes, doc.Signature,
		string(doc.Status), doc.UpdatedAt)
	if db.IsUniqueViolation(err, t.constraint) {
		return ErrDuplicateNumber
	}
	if err != nil {
		return fmt.Errorf("documents: update %s: %w", doc.Kind, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ReplaceItems(ctx context.Context, kind billing.Kind, docID uuid.UUID, items []billing.LineItem) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.items, t.parent), docID); err != nil {
		return fmt.Errorf("documents: delete items: %w", err)
	}
	insert := fmt.Sprintf(`INSERT INTO %s (
		%s, position, item_id, description, quantity, rate, discount, discount_type, amount
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, t.items, t.parent)
	for i, it := range items {
		_, err := r.db.Exec(ctx, insert, docID, i, it.ID, it.Description, it.Quantity, it.Rate,
			it.Discount, string(it.Mode()), it.Net())
		if err != nil {
			return fmt.Errorf("documents: insert item %d: %w", it.ID, err)
		}
	}
	return nil
}

func (r *repository) Get(ctx context.Context, kind billing.Kind, userID, id uuid.UUID) (Document, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return Document{}, err
	}
	query := fmt.Sprintf(`SELECT id, user_id, %s, company_name, company_address, company_phone,
		company_email, client_name, client_address, %s, due_date, subtotal, total_discount,
		total_amount, terms, notes, signature, status, created_at, updated_at
	FROM %s WHERE id = $1 AND user_id = $2`, t.number, t.issueDate, t.docs)

	doc := Document{Kind: kind}
	var issue, due time.Time
	var status string
	err = r.db.QueryRow(ctx, query, id, userID).Scan(
		&doc.ID, &doc.UserID, &doc.Number, &doc.CompanyName, &doc.CompanyAddress, &doc.CompanyPhone,
		&doc.CompanyEmail, &doc.ClientName, &doc.ClientAddress, &issue, &due, &doc.Subtotal,
		&doc.TotalDiscount, &doc.Total, &doc.Terms, &doc.Notes, &doc.Signature, &status,
		&doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("documents: get %s: %w", kind, err)
	}
	doc.IssueDate = NewDate(issue)
	doc.DueDate = NewDate(due)
	doc.Status = Status(status)

	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT item_id, description, quantity, rate, discount, discount_type
	FROM %s WHERE %s = $1 ORDER BY position`, t.items, t.parent), id)
	if err != nil {
		return Document{}, fmt.Errorf("documents: get items: %w", err)
	}
	defer rows.Close()

	doc.Items = []billing.LineItem{}
	for rows.Next() {
		var it billing.LineItem
		var mode string
		if err := rows.Scan(&it.ID, &it.Description, &it.Quantity, &it.Rate, &it.Discount, &mode); err != nil {
			return Document{}, fmt.Errorf("documents: scan item: %w", err)
		}
		it.DiscountType = billing.DiscountType(mode)
		doc.Items = append(doc.Items, it)
	}
	if err := rows.Err(); err != nil {
		return Document{}, fmt.Errorf("documents: get items: %w", err)
	}
	return doc, nil
}

func (r *repository) List(ctx context.Context, kind billing.Kind, userID uuid.UUID, page shared.Pagination) ([]ListItem, int, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1`, t.docs), userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("documents: count %s: %w", kind, err)
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT id, %s, client_name, %s, total_amount, status
	FROM %s WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3`, t.number, t.issueDate, t.docs), userID, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("documents: list %s: %w", kind, err)
	}
	defer rows.Close()

	out := []ListItem{}
	for rows.Next() {
		var li ListItem
		var issue time.Time
		var status string
		if err := rows.Scan(&li.ID, &li.Number, &li.ClientName, &issue, &li.Total, &status); err != nil {
			return nil, 0, fmt.Errorf("documents: scan %s: %w", kind, err)
		}
		li.IssueDate = NewDate(issue)
		li.Status = Status(status)
		out = append(out, li)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("documents: list %s: %w", kind, err)
	}
	return out, total, nil
}

func (r *repository) Delete(ctx context.Context, kind billing.Kind, userID, id uuid.UUID) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	// Items go with their parent through ON DELETE CASCADE.
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, t.docs), id, userID)
	if err != nil {
		return fmt.Errorf("documents: delete %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, kind billing.Kind, userID, id uuid.UUID, status Status) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE %s SET status = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`, t.docs),
		id, userID, string(status))
	if err != nil {
		return fmt.Errorf("documents: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) MarkOverdue(ctx context.Context, today Date) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE bills SET status = $1, updated_at = NOW()
	WHERE status = $2 AND due_date < $3`, string(StatusOverdue), string(StatusUnpaid), today.Time)
	if err != nil {
		return 0, fmt.Errorf("documents: mark overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}
