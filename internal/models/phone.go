package models

import "strings"

// CountryCallingCode is the international prefix all phone numbers are
// normalized to.
const CountryCallingCode = "252"

// NormalizePhone converts a phone number to its canonical international
// form: digits only, starting with the 252 country code. Local forms such
// as "063 4433221", "0634433221" or "634-433-221" all normalize to
// "252634433221". Normalization is idempotent: applying it to an already
// canonical number returns the number unchanged.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	// "00252…" is the dial-out spelling of "+252…".
	digits = strings.TrimPrefix(digits, "00")
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, CountryCallingCode) {
		return digits
	}
	return CountryCallingCode + digits
}
