// Package password hashes and verifies passwords with PBKDF2-HMAC-SHA256.
// The stored blob is base64(salt || derivedKey); everything needed for
// verification except the password itself lives inside the blob.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 10000
)

// Hash derives a key from plaintext with a fresh random salt and returns the
// salt+key blob as a base64 string.
func Hash(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(plaintext), salt, iterations, keySize, sha256.New)

	blob := make([]byte, 0, saltSize+keySize)
	blob = append(blob, salt...)
	blob = append(blob, key...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Verify recomputes the derived key with the salt stored in encoded and
// compares in constant time. A malformed blob fails closed: the function
// returns false, never an error.
func Verify(plaintext, encoded string) bool {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(blob) != saltSize+keySize {
		return false
	}

	salt := blob[:saltSize]
	want := blob[saltSize:]
	got := pbkdf2.Key([]byte(plaintext), salt, iterations, keySize, sha256.New)

	return subtle.ConstantTimeCompare(want, got) == 1
}
