package models

import (
	"strings"
	"testing"
)

func FuzzNormalizePhone(f *testing.F) {
	// Seed corpus with realistic numbers.
	f.Add("0634433221")
	f.Add("+252 63 4433221")
	f.Add("634433221")
	f.Add("00252634433221")
	f.Add("(063) 443-3221")

	// Seed corpus with junk.
	f.Add("")
	f.Add("abc")
	f.Add("000")
	f.Add("+")
	f.Add("٠١٢")
	f.Add("252")

	f.Fuzz(func(t *testing.T, input string) {
		once := NormalizePhone(input)

		// Invariant 1: idempotence.
		if twice := NormalizePhone(once); twice != once {
			t.Errorf("NormalizePhone(%q) = %q, but normalizing again gives %q", input, once, twice)
		}

		// Invariant 2: output is digits only.
		for _, r := range once {
			if r < '0' || r > '9' {
				t.Errorf("NormalizePhone(%q) = %q contains non-digit %q", input, once, r)
			}
		}

		// Invariant 3: non-empty output carries the country code.
		if once != "" && !strings.HasPrefix(once, CountryCallingCode) {
			t.Errorf("NormalizePhone(%q) = %q lacks %s prefix", input, once, CountryCallingCode)
		}
	})
}
