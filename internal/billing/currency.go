package billing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	enPrinter = message.NewPrinter(language.English)

	// leading decimal literal as accepted by a lenient float parser
	floatPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// FormatCurrency renders v with two decimals and comma grouping, e.g.
// 1234567.891 -> "1,234,567.89". Halves round away from zero on the shortest
// decimal representation of v, so 1.005 renders as "1.01".
func FormatCurrency(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	rounded := decimal.NewFromFloat(math.Abs(v)).Round(2)
	out := enPrinter.Sprint(number.Decimal(rounded.InexactFloat64(),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
	if math.Signbit(v) {
		return "-" + out
	}
	return out
}

// ParseCurrency recovers a number from user text such as "1,234.50". Commas
// are dropped and the longest leading decimal literal is parsed; anything
// unparseable or non-finite yields 0.
func ParseCurrency(text string) float64 {
	s := strings.ReplaceAll(text, ",", "")
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	lit := floatPrefix.FindString(s)
	if lit == "" {
		return 0
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseIntPrefix returns the leading integer of s or NaN when there is none.
func parseIntPrefix(s string) float64 {
	lit := intPrefix.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
	if lit == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
