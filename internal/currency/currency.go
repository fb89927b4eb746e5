// Package currency formats amounts typed into an entry field as
// "<euros>,<cents>" and converts them to period-decimal strings for storage.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxDigits bounds input to 999999,99.
	MaxDigits = 8

	centsDigits = 2
	minDigits   = centsDigits + 1
)

// Format derives the display text for the raw contents of an entry field.
// Every non-digit is dropped and the remaining digits are read as cents.
// Digits beyond MaxDigits are discarded from the end. previous is the text
// shown before the change; the result depends only on raw, so applying
// Format to its own output returns it unchanged.
func Format(previous, raw string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return ""
	}

	if len(digits) > MaxDigits {
		digits = digits[:MaxDigits]
	}
	if len(digits) < minDigits {
		digits = strings.Repeat("0", minDigits-len(digits)) + digits
	}

	split := len(digits) - centsDigits
	euros := strings.TrimLeft(digits[:split], "0")
	if euros == "" {
		euros = "0"
	}
	return euros + "," + digits[split:]
}

// Canonicalize turns display text into a period-decimal string.
func Canonicalize(display string) string {
	return strings.Replace(display, ",", ".", 1)
}

// ParseAmount parses a canonical amount. It reports false unless the
// string is a decimal strictly greater than zero.
func ParseAmount(canonical string) (decimal.Decimal, bool) {
	if canonical == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(canonical)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// Display renders a stored amount as display text, e.g. 12.3 -> "12,30".
func Display(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(centsDigits), ".", ",", 1)
}
