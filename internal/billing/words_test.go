package billing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToWords(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "Zero"},
		{1, "One"},
		{15, "Fifteen"},
		{21, "Twenty One"},
		{90, "Ninety"},
		{100, "One Hundred"},
		{115, "One Hundred and Fifteen"},
		{250, "Two Hundred and Fifty"},
		{1000, "One Thousand"},
		{1234.50, "One Thousand Two Hundred and Thirty Four and Fifty Cents"},
		{12.34, "Twelve and Thirty Four Cents"},
		{1.05, "One and Five Cents"},
		{1000000, "One Million"},
		{2001005, "Two Million One Thousand Five"},
		{999999999, "Nine Hundred and Ninety Nine Million Nine Hundred and Ninety Nine Thousand Nine Hundred and Ninety Nine"},
		{3000000000, "Three Billion"},
		{0.5, "Zero and Fifty Cents"},
		{-5.5, "Minus Five and Fifty Cents"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToWords(tc.in), "words for %v", tc.in)
	}
}

func TestToWordsHundredHasNoCents(t *testing.T) {
	got := ToWords(100)
	assert.NotContains(t, got, "Cents")
	assert.NotContains(t, got, " and ")
}

func TestToWordsTeensDoNotRepeatDigits(t *testing.T) {
	for n, want := range map[float64]string{
		10:   "Ten",
		15:   "Fifteen",
		19:   "Nineteen",
		315:  "Three Hundred and Fifteen",
		5011: "Five Thousand Eleven",
	} {
		got := ToWords(n)
		assert.Equal(t, want, got)
		assert.NotContains(t, got, "Five Five")
	}
}

func TestToWordsCentsSuffix(t *testing.T) {
	got := ToWords(1234.50)
	assert.True(t, strings.HasSuffix(got, "Cents"))
	assert.True(t, strings.HasPrefix(got, "One Thousand"))
}

func TestLegacySpellerMatchesPrintedDocuments(t *testing.T) {
	legacy := Speller{LegacyCentsJoin: true}

	assert.Equal(t, "One Thousand Two Hundred and Thirty Four and FiftyCents", legacy.Words(1234.50))
	assert.Equal(t, "and FiftyCents", legacy.Words(0.5))
	assert.Equal(t, "Zero", legacy.Words(0))
	assert.Equal(t, "One Hundred", legacy.Words(100))
	assert.Equal(t, "", legacy.Words(-5.5))
	assert.Equal(t, "Nine Hundred and Ninety Nine Million Nine Hundred and Ninety Nine Thousand Nine Hundred and Ninety Nine and FiftyCents", legacy.Words(999999999.5))
}

func TestLegacySpellerUsesBillionScale(t *testing.T) {
	legacy := Speller{LegacyCentsJoin: true}

	assert.Equal(t, "Three Billion and FiftyCents", legacy.Words(3000000000.5))
	assert.Equal(t, "One Billion Two Million", legacy.Words(1002000000))
}
