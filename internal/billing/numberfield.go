package billing

import (
	"regexp"
	"strings"
)

var editableAmount = regexp.MustCompile(`^\d*\.?\d*$`)

// NumberField is the editing buffer behind a currency input. While focused it
// holds the raw text being typed; on blur the text is parsed, clamped and
// committed, and the display switches back to the formatted value.
type NumberField struct {
	bounds  Bounds
	value   float64
	raw     string
	editing bool
}

// NewNumberField returns a committed field holding value.
func NewNumberField(value float64, bounds Bounds) *NumberField {
	return &NumberField{bounds: bounds, value: value}
}

// Focus enters the editing state seeded from the committed display. Focusing
// an already editing field keeps its buffer.
func (f *NumberField) Focus() {
	if f.editing {
		return
	}
	f.editing = true
	f.raw = committedDisplay(f.value)
}

// Input replaces the buffer with text. Text that is not a plain decimal once
// commas are removed is rejected and leaves the buffer untouched.
func (f *NumberField) Input(text string) bool {
	raw := strings.ReplaceAll(text, ",", "")
	if raw != "" && !editableAmount.MatchString(raw) {
		return false
	}
	f.editing = true
	f.raw = GroupDigits(raw)
	return true
}

// Blur commits the buffer and returns the committed value.
func (f *NumberField) Blur() float64 {
	if !f.editing {
		return f.value
	}
	raw := strings.ReplaceAll(f.raw, ",", "")
	v := 0.0
	if raw != "" {
		v = f.bounds.Clamp(ParseCurrency(raw))
	}
	f.value = v
	f.raw = ""
	f.editing = false
	return v
}

// Set overwrites the committed value and drops any buffer.
func (f *NumberField) Set(v float64) {
	f.value = v
	f.raw = ""
	f.editing = false
}

// Display is the text an input shows.
func (f *NumberField) Display() string {
	if f.editing {
		return f.raw
	}
	return committedDisplay(f.value)
}

// Value is the committed number. Typing does not change it until Blur.
func (f *NumberField) Value() float64 { return f.value }

// Editing reports whether the field holds an uncommitted buffer.
func (f *NumberField) Editing() bool { return f.editing }

func committedDisplay(v float64) string {
	if v == 0 {
		return ""
	}
	return FormatCurrency(v)
}

// GroupDigits inserts commas into every run of digits in s, counting groups
// of three from the end of each run. The fractional run is grouped as well:
// "1234.5678" -> "1,234.5,678".
func GroupDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	for i := 0; i < len(s); {
		if !isDigit(s[i]) {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		run := s[i:j]
		for k := 0; k < len(run); k++ {
			if k > 0 && (len(run)-k)%3 == 0 {
				b.WriteByte(',')
			}
			b.WriteByte(run[k])
		}
		i = j
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
