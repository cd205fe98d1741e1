package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateRandomBytes generates cryptographically secure random bytes
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generating random bytes: %w", err)
	}
	return b, nil
}

// GenerateResetToken returns a high-entropy hex token for password reset
// links. The raw value only ever travels in the emailed link; callers must
// store a one-way hash.
func GenerateResetToken() (string, error) {
	b, err := GenerateRandomBytes(32)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateBackupCodes returns count single-use 2FA fallback codes, each 8
// uppercase hex characters.
func GenerateBackupCodes(count int) ([]string, error) {
	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		b, err := GenerateRandomBytes(4)
		if err != nil {
			return nil, err
		}
		codes = append(codes, strings.ToUpper(hex.EncodeToString(b)))
	}
	return codes, nil
}

// HashBackupCode hashes a backup code for storage. Codes are matched
// case-insensitively, so the input is uppercased before hashing.
func HashBackupCode(code string) string {
	sum := sha256.Sum256([]byte(strings.ToUpper(code)))
	return hex.EncodeToString(sum[:])
}

// VerifyBackupCode compares a submitted code against a set of stored hashes
// and returns the index of the match, or -1.
func VerifyBackupCode(code string, hashes []string) int {
	hashed := HashBackupCode(code)
	for i, h := range hashes {
		if subtle.ConstantTimeCompare([]byte(hashed), []byte(h)) == 1 {
			return i
		}
	}
	return -1
}
