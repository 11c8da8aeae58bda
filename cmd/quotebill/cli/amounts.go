package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/quotebill/quotebill/internal/billing"
)

// AmountOptions controls how Amounts prints each value.
type AmountOptions struct {
	Suffix      string
	LegacyCents bool
}

// Amounts prints "formatted<TAB>words" for each argument. Arguments are read
// with billing.ParseCurrency, so "12,500.50" is accepted.
func Amounts(w io.Writer, args []string, opts AmountOptions) error {
	speller := billing.Speller{LegacyCentsJoin: opts.LegacyCents}
	for _, arg := range args {
		v := billing.ParseCurrency(arg)
		words := speller.Words(v)
		if opts.Suffix != "" {
			words = strings.TrimSpace(words + " " + opts.Suffix)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", billing.FormatCurrency(v), words); err != nil {
			return err
		}
	}
	return nil
}
