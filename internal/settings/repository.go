package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quotebill/quotebill/internal/platform/httpx"
)

// ErrNotFound is returned when the user has no saved settings.
var ErrNotFound = fmt.Errorf("settings: %w", httpx.ErrNotFound)

// Repository persists company settings.
type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (Settings, error)
	Upsert(ctx context.Context, s Settings) (Settings, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db dbtx
}

// NewRepository returns a Postgres backed Repository.
func NewRepository(conn dbtx) Repository {
	return &repository{db: conn}
}

const selectColumns = `id, user_id, company_name, company_address, company_phone, company_email,
	company_website, logo_url, signature_url, default_terms, default_notes, tax_number,
	bank_details, updated_at`

func scanSettings(row pgx.Row) (Settings, error) {
	var s Settings
	err := row.Scan(&s.ID, &s.UserID, &s.CompanyName, &s.CompanyAddress, &s.CompanyPhone,
		&s.CompanyEmail, &s.CompanyWebsite, &s.LogoURL, &s.SignatureURL, &s.DefaultTerms,
		&s.DefaultNotes, &s.TaxNumber, &s.BankDetails, &s.UpdatedAt)
	return s, err
}

func (r *repository) Get(ctx context.Context, userID uuid.UUID) (Settings, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM company_settings WHERE user_id = $1`, userID)
	s, err := scanSettings(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, fmt.Errorf("settings: get: %w", err)
	}
	return s, nil
}

func (r *repository) Upsert(ctx context.Context, s Settings) (Settings, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx, `INSERT INTO company_settings (
		id, user_id, company_name, company_address, company_phone, company_email,
		company_website, logo_url, signature_url, default_terms, default_notes, tax_number,
		bank_details, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	ON CONFLICT (user_id) DO UPDATE SET
		company_name = EXCLUDED.company_name,
		company_address = EXCLUDED.company_address,
		company_phone = EXCLUDED.company_phone,
		company_email = EXCLUDED.company_email,
		company_website = EXCLUDED.company_website,
		logo_url = EXCLUDED.logo_url,
		signature_url = EXCLUDED.signature_url,
		default_terms = EXCLUDED.default_terms,
		default_notes = EXCLUDED.default_notes,
		tax_number = EXCLUDED.tax_number,
		bank_details = EXCLUDED.bank_details,
		updated_at = NOW()
	RETURNING `+selectColumns,
		s.ID, s.UserID, s.CompanyName, s.CompanyAddress, s.CompanyPhone, s.CompanyEmail,
		s.CompanyWebsite, s.LogoURL, s.SignatureURL, s.DefaultTerms, s.DefaultNotes,
		s.TaxNumber, s.BankDetails)
	saved, err := scanSettings(row)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: upsert: %w", err)
	}
	return saved, nil
}
