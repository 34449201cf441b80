package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fillerPrefixes are stripped from the front of a concept once, longest match
// first. Checked against the already lowercased, whitespace-collapsed text.
var fillerPrefixes = []string{
	"mobile app: ",
	"app idea: ",
	"web app: ",
	"app: ",
}

// Normalize maps free-text app-concept strings to a canonical form:
// lowercase, runs of whitespace collapsed to single spaces, at most one
// filler prefix stripped. Normalize is idempotent and total over any input.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	normalized := strings.ToLower(text)
	normalized = strings.Join(strings.Fields(normalized), " ")

	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			normalized = normalized[len(prefix):]
			break
		}
	}

	return normalized
}

// Fingerprint returns the SHA-256 hex digest of the normalized concept text.
// Identical normalized text always yields an identical fingerprint; there is
// no entropy source involved.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))

	return hex.EncodeToString(sum[:])
}
