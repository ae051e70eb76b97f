// Package id generates opaque prefixed identifiers for auth sessions and other non-relational keys.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes in use.
const (
	PrefixSession = "sess"
	PrefixRequest = "req"
)

// Generate returns prefix-<nanoid>, e.g. "sess-V1StGXR8_Z5jdHi6B-myT".
// It fails only when the system entropy source does.
func Generate(prefix string) (string, error) {
	n, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + n, nil
}

// MustGenerate is Generate for initialization paths where failure is fatal.
func MustGenerate(prefix string) string {
	s, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return s
}
