// Package auth provides password digests, JWT session tokens, and the
// cookie-based middleware for the HTTP surface.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the hex-encoded SHA-256 digest of the password.
//
// The digest is deliberately deterministic: authentication is an exact
// (normalized email, digest) match against the stored record, so the same
// secret must always produce the same digest. Plaintext never reaches
// storage.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether the password digests to the stored hash,
// using a constant-time comparison.
func VerifyPassword(hash, password string) bool {
	digest := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(digest)) == 1
}
