// Package token generates and digests newsletter verification tokens.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"

	"golang.org/x/crypto/blake2b"
)

// SecretBytes is the amount of randomness in a token (hex encoded to 64 chars).
const SecretBytes = 32

var tokenFormatRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Generated holds a freshly minted token.
type Generated struct {
	Plaintext string // goes into the emailed link only
	Hash      string // stored in the database
}

// Generate creates a new random token and its digest.
func Generate() (*Generated, error) {
	secret := make([]byte, SecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	plaintext := hex.EncodeToString(secret)

	return &Generated{
		Plaintext: plaintext,
		Hash:      Hash(plaintext),
	}, nil
}

// Hash returns the hex BLAKE2b-256 digest of a presented token.
// Unsalted, so the digest can be used as a lookup key.
func Hash(plaintext string) string {
	sum := blake2b.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// WellFormed reports whether s looks like a token produced by Generate.
// Malformed input can skip the database lookup entirely.
func WellFormed(s string) bool {
	return tokenFormatRegex.MatchString(s)
}
