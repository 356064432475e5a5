// Money parsing for spreadsheet cells filled in Brazilian locale:
// optional "R$" prefix, period as thousands separator, comma as decimal
// separator. Sums are carried in cents to avoid float accumulation drift.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseBRL converts a monetary cell like "R$ 1.234,56" to cents (123456).
// Unparseable values yield 0, never an error: a broken cell must not break
// a column sum.
func ParseBRL(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}

// ParseNumber converts a plain numeric cell (distances, counts) to a
// float64, tolerating a decimal comma. Unparseable values yield 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Reais returns the cents value in reais for display purposes.
func Reais(cents int64) float64 {
	return float64(cents) / 100.0
}

// FormatBRL renders cents as "R$ 1.234,56".
func FormatBRL(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	out := "R$ " + b.String() + "," + twoDigits(frac)
	if neg {
		return "-" + out
	}
	return out
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
