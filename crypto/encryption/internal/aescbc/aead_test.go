package aescbc

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSealer_RoundTrip(t *testing.T) {
	t.Parallel()

	sizes := []int{0, 1, 15, 16, 17, 1024, 1048576}
	key := testKey(t)
	var s Sealer

	for _, n := range sizes {
		n := n
		plaintext := make([]byte, n)
		_, err := rand.Read(plaintext)
		require.NoError(t, err)

		sealed, err := s.Seal(key, plaintext)
		require.NoError(t, err)

		// IV(16) + ciphertext always padded to at least one full block.
		require.GreaterOrEqual(t, len(sealed), ivLen+16)
		require.Equal(t, 0, (len(sealed)-ivLen)%16)

		got, err := s.Open(key, sealed)
		require.NoError(t, err)
		require.True(t, bytes.Equal(plaintext, got))
	}
}

func TestSealer_FreshIVPerCall(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	var s Sealer
	plaintext := []byte("identical plaintext, sealed twice")

	a, err := s.Seal(key, plaintext)
	require.NoError(t, err)
	b, err := s.Seal(key, plaintext)
	require.NoError(t, err)

	require.False(t, bytes.Equal(a[:ivLen], b[:ivLen]), "two seals of identical plaintext must use distinct IVs")
}

func TestSealer_TamperDetection(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	var s Sealer
	sealed, err := s.Seal(key, []byte("tamper me"))
	require.NoError(t, err)

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xFF

	_, err = s.Open(key, tampered)
	require.Error(t, err)
}

func TestSealer_S1Exactly32Bytes(t *testing.T) {
	t.Parallel()

	key := make([]byte, 32)
	plaintext := make([]byte, 12)
	var s Sealer

	sealed, err := s.Seal(key, plaintext)
	require.NoError(t, err)
	require.Len(t, sealed, 32)
}

func TestPKCS7PadAlwaysAddsPadding(t *testing.T) {
	t.Parallel()

	// A block-aligned input still gets a full block of padding.
	data := make([]byte, 32)
	padded := pkcs7Pad(data, 16)
	require.Len(t, padded, 48)
	for _, b := range padded[32:] {
		require.Equal(t, byte(16), b)
	}
}

func TestPKCS7UnpadRejectsInvalidPadding(t *testing.T) {
	t.Parallel()

	data := make([]byte, 16)
	data[15] = 0 // padLen of 0 is never valid
	_, err := pkcs7Unpad(data, 16)
	require.ErrorIs(t, err, ErrPadding)

	data[15] = 17 // padLen larger than block size
	_, err = pkcs7Unpad(data, 16)
	require.ErrorIs(t, err, ErrPadding)
}
