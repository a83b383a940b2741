// Package otp generates and hashes the 6-digit one-time codes used for the
// email second factor. Only the SHA-256 digest of a code is ever stored.
package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

const codeRange = 900000 // codes are drawn from [100000, 999999]

// Generate returns a cryptographically random 6-digit code. The range starts
// at 100000 so the code never collapses to fewer digits.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", err
	}
	code := n.Int64() + 100000
	return itoa6(code), nil
}

// Hash returns the hex-encoded SHA-256 digest of a code.
func Hash(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func itoa6(n int64) string {
	buf := [6]byte{}
	for i := 5; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[:])
}
