package documents

import (
	"errors"
	"fmt"

	"github.com/quotebill/quotebill/internal/platform/httpx"
)

var (
	// ErrNotFound is returned when a document does not exist for the user.
	ErrNotFound = fmt.Errorf("documents: %w", httpx.ErrNotFound)
	// ErrDuplicateNumber is returned when an insert hits the number's unique index.
	ErrDuplicateNumber = fmt.Errorf("documents: number already used: %w", httpx.ErrDuplicate)
	// ErrUnknownKind is returned for a kind other than quotation or bill.
	ErrUnknownKind = fmt.Errorf("documents: unknown kind: %w", httpx.ErrNotFound)
	// ErrRendererUnavailable is returned when PDF export is not configured.
	ErrRendererUnavailable = errors.New("documents: pdf renderer unavailable")
)
