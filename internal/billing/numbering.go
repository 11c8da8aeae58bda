package billing

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// Kind is the document type a number is issued for.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindBill      Kind = "bill"
)

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	return k == KindQuotation || k == KindBill
}

// Prefix is the leading part of numbers issued for k.
func (k Kind) Prefix() string {
	if k == KindBill {
		return "BILL"
	}
	return "QUO"
}

// MaxNumberAttempts bounds the existence checks made by GenerateUnique.
const MaxNumberAttempts = 10

// NumberChecker reports whether a document number is already taken within a
// document kind. The check is not scoped to a user.
type NumberChecker interface {
	NumberExists(ctx context.Context, kind Kind, number string) (bool, error)
}

// NumberGenerator issues human readable document numbers such as QUO-482913.
type NumberGenerator struct {
	checker NumberChecker
	intN    func(n int) int
	now     func() time.Time
}

// GeneratorOption customises a NumberGenerator.
type GeneratorOption func(*NumberGenerator)

// WithRandom replaces the random source; fn must return a value in [0, n).
func WithRandom(fn func(n int) int) GeneratorOption {
	return func(g *NumberGenerator) { g.intN = fn }
}

// WithClock replaces the clock used for the fallback number.
func WithClock(fn func() time.Time) GeneratorOption {
	return func(g *NumberGenerator) { g.now = fn }
}

// NewNumberGenerator builds a generator. checker may be nil when only
// Generate is needed.
func NewNumberGenerator(checker NumberChecker, opts ...GeneratorOption) *NumberGenerator {
	g := &NumberGenerator{checker: checker, intN: rand.IntN, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns an unchecked number with a six digit random suffix in
// [100000, 999999]. Used to prefill a new draft.
func (g *NumberGenerator) Generate(kind Kind) string {
	return fmt.Sprintf("%s-%d", kind.Prefix(), g.intN(900000)+100000)
}

// GenerateUnique draws random numbers until one is free, checking at most
// MaxNumberAttempts candidates. When every candidate is taken it falls back to
// the last six digits of the current Unix millisecond time, unchecked. A
// failed existence check aborts with the error.
func (g *NumberGenerator) GenerateUnique(ctx context.Context, kind Kind) (string, error) {
	if g.checker == nil {
		return g.Generate(kind), nil
	}
	for attempt := 0; attempt < MaxNumberAttempts; attempt++ {
		candidate := g.Generate(kind)
		exists, err := g.checker.NumberExists(ctx, kind, candidate)
		if err != nil {
			return "", fmt.Errorf("billing: check number %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return g.fallback(kind), nil
}

// Resolve keeps candidate when it is free and otherwise issues a new number
// with GenerateUnique. It runs once, before a document is first inserted.
func (g *NumberGenerator) Resolve(ctx context.Context, kind Kind, candidate string) (string, error) {
	switch {
	case candidate == "":
		return g.GenerateUnique(ctx, kind)
	case g.checker == nil:
		return candidate, nil
	}
	exists, err := g.checker.NumberExists(ctx, kind, candidate)
	if err != nil {
		return "", fmt.Errorf("billing: check number %s: %w", candidate, err)
	}
	if !exists {
		return candidate, nil
	}
	return g.GenerateUnique(ctx, kind)
}

func (g *NumberGenerator) fallback(kind Kind) string {
	ms := strconv.FormatInt(g.now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return kind.Prefix() + "-" + ms
}
