// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"errors"
	"fmt"

	"github.com/vaultstream/fileengine/crypto/encryption/internal/aescbc"
	"github.com/vaultstream/fileengine/crypto/encryption/internal/chacha"
)

// AlgorithmID enumerates the supported per-frame cipher suites. It is the
// wire code stored in the container header (spec §3 "AlgorithmId").
type AlgorithmID uint16

const (
	// AlgorithmUnknown is the zero value; ParseAlgorithm returns it, together
	// with an error, for an unrecognized algorithm string.
	AlgorithmUnknown AlgorithmID = 0
	// AlgorithmAESCBC256 is AES-256-CBC with PKCS#7 padding.
	AlgorithmAESCBC256 AlgorithmID = 1
	// AlgorithmChaCha20Poly1305 is ChaCha20-Poly1305 AEAD.
	AlgorithmChaCha20Poly1305 AlgorithmID = 2
)

func (a AlgorithmID) String() string {
	switch a {
	case AlgorithmAESCBC256:
		return "aes"
	case AlgorithmChaCha20Poly1305:
		return "chacha20poly1305"
	default:
		return "unknown"
	}
}

// ParseAlgorithm parses the public algorithm string ("aes" or
// "chacha20poly1305") into its wire AlgorithmID, per spec §6.3.
func ParseAlgorithm(s string) (AlgorithmID, error) {
	switch s {
	case "aes":
		return AlgorithmAESCBC256, nil
	case "chacha20poly1305":
		return AlgorithmChaCha20Poly1305, nil
	default:
		return AlgorithmUnknown, newErr(KindUnknownAlgorithm, "parse algorithm", fmt.Sprintf("unrecognized algorithm %q", s), nil)
	}
}

// frameSealer is the uniform seal/open surface of spec §4.A, implemented
// once per algorithm family in internal/aescbc and internal/chacha.
type frameSealer interface {
	// Seal returns sealed_bytes: a self-sufficient byte sequence for Open
	// given only the key.
	Seal(key, plaintext []byte) ([]byte, error)
	// Open is the inverse of Seal.
	Open(key, sealed []byte) ([]byte, error)
	// Overhead returns the fixed per-frame byte overhead (IV/nonce plus
	// tag/padding worst case) added by Seal.
	Overhead() int
}

func sealerFor(algo AlgorithmID) (frameSealer, error) {
	switch algo {
	case AlgorithmAESCBC256:
		return aescbc.Sealer{}, nil
	case AlgorithmChaCha20Poly1305:
		return chacha.Sealer{}, nil
	default:
		return nil, newErr(KindUnknownAlgorithm, "select algorithm", fmt.Sprintf("unsupported algorithm id %d", algo), nil)
	}
}

// seal dispatches a single-buffer seal to the algorithm adapter (spec §4.A).
func seal(algo AlgorithmID, key, plaintext []byte) ([]byte, error) {
	s, err := sealerFor(algo)
	if err != nil {
		return nil, err
	}
	out, err := s.Seal(key, plaintext)
	if err != nil {
		return nil, newErr(KindCrypto, "seal", "unable to seal plaintext", err)
	}
	return out, nil
}

// open dispatches a single-buffer open to the algorithm adapter (spec §4.A),
// classifying the adapter's sentinel errors into the Kind taxonomy of §7.
func open(algo AlgorithmID, key, sealed []byte) ([]byte, error) {
	s, err := sealerFor(algo)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.Open(key, sealed)
	if err == nil {
		return plaintext, nil
	}

	switch {
	case errors.Is(err, aescbc.ErrPadding):
		return nil, newErr(KindPaddingError, "open", "PKCS#7 padding invalid", err)
	case errors.Is(err, chacha.ErrAuth):
		return nil, newErr(KindAuthFailure, "open", "AEAD tag verification failed", err)
	default:
		return nil, newErr(KindCrypto, "open", "unable to open sealed bytes", err)
	}
}
