package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the hex-encoded SHA-256 of the raw file bytes. Two
// byte-identical uploads always fingerprint the same, regardless of file
// name or upload options.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
