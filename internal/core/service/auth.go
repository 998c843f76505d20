package service

import (
	"crypto/subtle"
	"errors"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/yndnr/nskv/pkg/token"
)

// Argon2 parameters for the shared secret digest.
const (
	argon2Memory      uint32 = 16384
	argon2Time        uint32 = 2
	argon2Parallelism uint8  = 2
	argon2KeyLen      uint32 = 32
	argon2SaltLen            = 16
)

// ErrEmptySecret is returned when the shared secret is empty.
var ErrEmptySecret = errors.New("service: shared secret must not be empty")

// Authenticator checks AUTH tokens against the configured shared secret.
//
// Only an Argon2id digest of the secret is kept in memory. Comparison is
// constant time.
type Authenticator struct {
	mu     sync.RWMutex
	salt   []byte
	digest []byte

	managerToken string
}

// NewAuthenticator creates an Authenticator for secret.
func NewAuthenticator(secret string) (*Authenticator, error) {
	a := &Authenticator{}
	if err := a.SetSecret(secret); err != nil {
		return nil, err
	}

	tok, err := token.GenerateManagerToken()
	if err != nil {
		return nil, err
	}
	a.managerToken = tok

	return a, nil
}

// SetSecret replaces the shared secret. Sessions already elevated keep
// their role.
func (a *Authenticator) SetSecret(secret string) error {
	if secret == "" {
		return ErrEmptySecret
	}

	salt, err := token.GenerateBytes(argon2SaltLen)
	if err != nil {
		return err
	}
	digest := hashSecret(secret, salt)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.salt = salt
	a.digest = digest
	return nil
}

// Verify reports whether candidate equals the shared secret.
// Matching is exact and case-sensitive.
func (a *Authenticator) Verify(candidate string) bool {
	a.mu.RLock()
	salt, expected := a.salt, a.digest
	a.mu.RUnlock()

	computed := hashSecret(candidate, salt)
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// ManagerToken returns the bearer token issued to HTTP clients that
// authenticate successfully. It is fixed for the lifetime of the process.
func (a *Authenticator) ManagerToken() string {
	return a.managerToken
}

// VerifyManagerToken reports whether candidate is the manager token.
func (a *Authenticator) VerifyManagerToken(candidate string) bool {
	if candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(a.managerToken)) == 1
}

func hashSecret(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)
}
