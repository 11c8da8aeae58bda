package shared

import (
	"fmt"

	"github.com/quotebill/quotebill/internal/platform/httpx"
)

// ErrNoUser is returned when a request reaches a handler without a user id.
var ErrNoUser = fmt.Errorf("no user in request: %w", httpx.ErrUnauthorized)
