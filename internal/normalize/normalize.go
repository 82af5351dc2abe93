// Package normalize parses and formats the currency, phone, and tax-id
// strings typed on the composition and settings screens. Every mask here is
// a pure function of the digits typed so far, never of the previous masked
// string, so reapplying a mask to its own output is always safe and pasted
// input cannot corrupt the display.
package normalize

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ParseMoney converts user-typed currency text ("R$ 1.234,56") into a
// non-negative amount. Grouping dots are stripped, the comma becomes the
// decimal point. Malformed or empty input yields 0.
func ParseMoney(s string) float64 {
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

// FormatMoney renders an amount in the BRL display convention
// ("R$1.234,56"): currency symbol, dot grouping, comma decimal, two
// fractional digits.
func FormatMoney(v float64) string {
	cents := decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
	return money.New(cents, money.BRL).Display()
}

// MaskPhone renders the progressive display mask for Brazilian phone
// numbers: "(11) 9 8765-4321" once the mobile 11th digit arrives,
// "(11) 8765-4321" for landlines, partial grouping while typing. At most 11
// digits are kept.
func MaskPhone(raw string) string {
	d := digits(raw, 11)
	switch {
	case len(d) > 10:
		return "(" + d[:2] + ") " + d[2:3] + " " + d[3:7] + "-" + d[7:]
	case len(d) > 6:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	case len(d) > 2:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return d
	}
}

// MaskCNPJ renders the fixed-position CNPJ mask ("12.345.678/9012-34"),
// inserting each separator once the digit threshold after it is crossed. At
// most 14 digits are kept.
func MaskCNPJ(raw string) string {
	d := digits(raw, 14)
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

// ValidPhone reports whether s contains at least the 10 digits of an area
// code plus subscriber number. Formatting characters are ignored.
func ValidPhone(s string) bool {
	return len(digits(s, 0)) >= 10
}

// digits keeps only ASCII digits, capped at max when max > 0.
func digits(s string, max int) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
			if max > 0 && b.Len() == max {
				break
			}
		}
	}
	return b.String()
}
