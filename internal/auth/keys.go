// Package auth issues and verifies the identity tokens that carry a caller's
// email, name and image.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	keyFileName = "auth.key"

	// PASETO v4 requires a 256-bit (32-byte) symmetric key.
	keyLength    = 32
	keyHexLength = 64
)

// LoadOrGenerateKey returns the token key stored hex-encoded in
// <dataPath>/auth.key, creating the file with a fresh random key when absent.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, keyFileName)

	//#nosec G304 -- Auth key path is derived from the configured data path
	keyBytes, err := os.ReadFile(keyPath)
	switch {
	case err == nil:
		return decodeKey(strings.TrimSpace(string(keyBytes)))
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read auth key: %w", err)
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save auth key: %w", err)
	}

	return key, nil
}

func decodeKey(keyHex string) ([]byte, error) {
	if len(keyHex) != keyHexLength {
		return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", keyHexLength, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid auth key format: not valid hex: %w", err)
	}
	return key, nil
}
