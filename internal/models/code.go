package models

import (
	"errors"
	"math/rand/v2"
	"strconv"
)

// ErrCodeSpaceExhausted is returned when every 4-digit campaign code is
// already taken.
var ErrCodeSpaceExhausted = errors.New("no campaign codes left")

const maxRandomCodeAttempts = 50

// GenerateCampaignCode draws a random 4-digit code not present in used.
// After a bounded number of random draws it falls back to a sequential
// scan, so a nearly full code space degrades instead of spinning.
func GenerateCampaignCode(used []string) (string, error) {
	taken := make(map[string]bool, len(used))
	for _, code := range used {
		taken[code] = true
	}

	for range maxRandomCodeAttempts {
		code := strconv.Itoa(1000 + rand.IntN(9000))
		if !taken[code] {
			return code, nil
		}
	}

	for n := 1000; n <= 9999; n++ {
		code := strconv.Itoa(n)
		if !taken[code] {
			return code, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}
