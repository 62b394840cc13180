// Package id generates identifiers for prompts and anonymous sessions.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// AnonymousPrefix starts every anonymous session identifier.
const AnonymousPrefix = "anon"

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "anon-V1StGXR8_Z5jdHi6B-myT")
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewPromptID returns a random UUID string for a new prompt document.
func NewPromptID() string {
	return uuid.NewString()
}

// IsPromptID reports whether s is a well-formed prompt UUID.
func IsPromptID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// NewAnonymousSession returns a fresh anonymous session identifier.
func NewAnonymousSession() (string, error) {
	return Generate(AnonymousPrefix)
}
