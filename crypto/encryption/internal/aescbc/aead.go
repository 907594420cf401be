// Package aescbc implements the AES-256-CBC + PKCS#7 frame cipher (spec §4.A).
package aescbc

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	// ivLen is the AES block size, used as the CBC initialization vector length.
	ivLen = aes.BlockSize
	// maxOverhead bounds IV(16) plus a full padding block(16) worst case.
	maxOverhead = ivLen + aes.BlockSize
)

// ErrPadding is returned by Open when the PKCS#7 padding is malformed: a
// ciphertext that is not a whole number of blocks, an out-of-range pad byte
// or a tail that doesn't match it (spec §4.A, §7 "PaddingError").
var ErrPadding = errors.New("invalid PKCS#7 padding")

// Sealer implements AES-256-CBC with PKCS#7 padding over a single buffer.
// sealed_bytes = IV(16) || ciphertext(padded, multiple of 16), per spec §4.A.
type Sealer struct{}

// Overhead returns the worst-case per-call byte overhead: a fresh IV plus a
// full block of padding.
func (Sealer) Overhead() int { return maxOverhead }

// Seal pads plaintext with PKCS#7, generates a fresh random IV and encrypts
// under CBC mode.
func (Sealer) Seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)

	iv := make([]byte, ivLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generate IV: %w", err)
	}

	ciphertext := make([]byte, ivLen+len(padded))
	copy(ciphertext, iv)

	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(ciphertext[ivLen:], padded)

	return ciphertext, nil
}

// Open reads the leading 16-byte IV, decrypts the remainder under CBC mode
// and strips the PKCS#7 padding.
func (Sealer) Open(key, sealed []byte) ([]byte, error) {
	if len(sealed) < ivLen {
		return nil, errors.New("sealed bytes too short to contain an IV")
	}
	if (len(sealed)-ivLen)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length is not a multiple of the block size: %w", ErrPadding)
	}
	if len(sealed) == ivLen {
		return nil, errors.New("sealed bytes contain no ciphertext block")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	iv := sealed[:ivLen]
	ciphertext := sealed[ivLen:]

	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

// pkcs7Pad always adds between 1 and blockSize bytes, including a full block
// when the input is already block-aligned (spec §3 "Chunk"/§4.A).
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs7Unpad validates and strips PKCS#7 padding, returning PaddingError
// semantics (via a plain error; the caller wraps it with the Kind) on any
// malformed tail.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 || n%blockSize != 0 {
		return nil, errors.New("invalid padded data length")
	}

	padLen := int(data[n-1])
	if padLen == 0 || padLen > blockSize || padLen > n {
		return nil, ErrPadding
	}

	if !bytes.Equal(data[n-padLen:], bytes.Repeat([]byte{byte(padLen)}, padLen)) {
		return nil, ErrPadding
	}

	return data[:n-padLen], nil
}
