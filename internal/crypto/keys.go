package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeyLength is the size of derived signing keys in bytes.
const KeyLength = 32

var ErrEmptySecret = errors.New("secret must not be empty")

// DeriveKey expands secret into a KeyLength-byte key bound to purpose.
// Distinct purposes yield independent keys from the same secret.
func DeriveKey(secret, purpose string) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	r := hkdf.New(sha256.New, []byte(secret), []byte("pwgen"), []byte(purpose))
	key := make([]byte, KeyLength)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}
	return key, nil
}
