package billing

import (
	"math"
	"strings"
)

var (
	ones  = [...]string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teens = [...]string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens  = [...]string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// Speller converts amounts to English words for the printed total.
//
// LegacyCentsJoin reproduces documents printed by the first version of the
// tool for amounts below one billion: the cents clause is glued to "Cents"
// without a space ("... and FiftyCents"), a zero whole part is left out, and
// negative amounts render as an empty string. From one billion up both modes
// use the "Billion" scale, which the first version never printed.
type Speller struct {
	LegacyCentsJoin bool
}

// ToWords spells amount with the default Speller:
// 1234.5 -> "One Thousand Two Hundred and Thirty Four and Fifty Cents".
func ToWords(amount float64) string {
	return Speller{}.Words(amount)
}

// Words spells amount. The currency name is left to the caller.
func (s Speller) Words(amount float64) string {
	if amount == 0 {
		return "Zero"
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ""
	}
	if amount < 0 {
		if s.LegacyCentsJoin {
			return ""
		}
		return "Minus " + s.Words(-amount)
	}

	whole := math.Floor(amount)
	cents := int(math.Round(math.Mod(amount, 1) * 100))

	result := strings.Join(wholeWords(whole), " ")
	if result == "" && !s.LegacyCentsJoin {
		result = "Zero"
	}
	if cents > 0 {
		suffix := " Cents"
		if s.LegacyCentsJoin {
			suffix = "Cents"
		}
		result += " and " + strings.Join(chunkWords(cents), " ") + suffix
	}
	return strings.TrimSpace(result)
}

// wholeWords spells a non-negative integral value scale by scale.
func wholeWords(n float64) []string {
	var words []string
	if n >= 1e9 {
		words = append(words, wholeWords(math.Floor(n/1e9))...)
		words = append(words, "Billion")
		n = math.Mod(n, 1e9)
	}
	if n >= 1e6 {
		words = append(words, chunkWords(int(n/1e6))...)
		words = append(words, "Million")
		n = math.Mod(n, 1e6)
	}
	if n >= 1e3 {
		words = append(words, chunkWords(int(n/1e3))...)
		words = append(words, "Thousand")
		n = math.Mod(n, 1e3)
	}
	return append(words, chunkWords(int(n))...)
}

// chunkWords spells 0..999. Teens end the chunk immediately.
func chunkWords(n int) []string {
	if n <= 0 {
		return nil
	}
	var words []string
	if n >= 100 {
		words = append(words, ones[n/100], "Hundred")
		n %= 100
		if n > 0 {
			words = append(words, "and")
		}
	}
	if n >= 20 {
		words = append(words, tens[n/10])
		n %= 10
	} else if n >= 10 {
		return append(words, teens[n-10])
	}
	if n > 0 {
		words = append(words, ones[n])
	}
	return words
}
