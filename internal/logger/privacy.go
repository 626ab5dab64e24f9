package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

var hashSalt string

// InitHashSalt loads the hash salt from the LOG_HASH_SALT environment
// variable. Contributor phone numbers appear in log fields only as salted
// hashes; set a real salt in production.
func InitHashSalt() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

// InitHashSaltForTesting sets a deterministic salt. Tests only.
func InitHashSaltForTesting(salt string) {
	hashSalt = salt
}

// HashPhone creates a privacy-preserving hash of a phone number. This
// allows correlating actions on the same contributor without writing the
// actual number to logs.
func HashPhone(phone string) string {
	return shortHash(phone)
}

// HashUserID creates a privacy-preserving hash of a remote account ID.
func HashUserID(userID string) string {
	return shortHash(userID)
}

func shortHash(value string) string {
	if hashSalt == "" {
		InitHashSalt()
	}
	data := fmt.Sprintf("%s:%s", value, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// First 8 characters are enough to correlate without being reversible
	// in practice.
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeText redacts user-provided text while preserving enough shape
// for debugging.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}
	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}
	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
