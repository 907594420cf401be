// Package chacha implements the ChaCha20-Poly1305 frame AEAD (spec §4.A).
package chacha

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

const nonceLen = chacha20poly1305.NonceSize // 12

// ErrAuth is returned by Open when Poly1305 tag verification fails (spec §7
// "AuthFailure").
var ErrAuth = errors.New("chacha20poly1305: message authentication failed")

// Sealer implements ChaCha20-Poly1305 over a single buffer, without
// associated data. sealed_bytes = nonce(12) || ciphertext(len(plaintext)) ||
// tag(16), per spec §4.A.
type Sealer struct{}

// Overhead returns the fixed per-call byte overhead: nonce plus tag.
func (Sealer) Overhead() int { return nonceLen + chacha20poly1305.Overhead }

// Seal generates a fresh random 12-byte nonce and seals plaintext with no
// associated data.
func (Sealer) Seal(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := make([]byte, nonceLen, nonceLen+len(plaintext)+aead.Overhead())
	copy(sealed, nonce)
	sealed = aead.Seal(sealed, nonce, plaintext, nil)

	return sealed, nil
}

// Open splits sealed bytes into nonce, ciphertext and tag by their fixed
// offsets and verifies the tag.
func (Sealer) Open(key, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}

	if len(sealed) < nonceLen+aead.Overhead() {
		return nil, errors.New("sealed bytes too short to contain a nonce and tag")
	}

	nonce := sealed[:nonceLen]
	ciphertext := sealed[nonceLen:]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuth
	}

	return plaintext, nil
}
