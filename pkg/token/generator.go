package token

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

const (
	// DefaultLength is the default token length in bytes.
	DefaultLength = 32

	// ManagerPrefix marks manager access tokens.
	ManagerPrefix = "nsmt_"
)

// Generate generates a cryptographically secure random token.
//
// The returned token is Base64 RawURL encoded for safe URL transmission.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength generates a token with the specified byte length.
func GenerateWithLength(length int) (string, error) {
	b, err := GenerateBytes(length)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateManagerToken generates a prefixed manager access token.
func GenerateManagerToken() (string, error) {
	body, err := Generate()
	if err != nil {
		return "", err
	}
	return ManagerPrefix + body, nil
}

// IsManagerToken reports whether s has the shape of a manager token.
func IsManagerToken(s string) bool {
	return strings.HasPrefix(s, ManagerPrefix) && len(s) == len(ManagerPrefix)+43
}

// GenerateBytes generates random bytes.
func GenerateBytes(length int) ([]byte, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
