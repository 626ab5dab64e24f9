package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary amount out of free-form input the forgiving
/// way: leading whitespace is skipped and parsing stops at the first
// character that cannot extend a number, so "70 USD" yields 70 and
// "12.5x" yields 12.5. Non-numeric input yields zero rather than an error,
// so a malformed amount counts as nothing collected instead of breaking an
// aggregation.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)

	end := 0
	seenDigit := false
	seenDot := false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			break scan
		}
	}

	if !seenDigit {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s[:end])
	if err != nil {
		return decimal.Zero
	}
	return d
}
