// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptFile_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, algo := range []string{"aes", "chacha20poly1305"} {
		algo := algo
		for _, size := range []int{0, 1, 12, 1024, 65536} {
			size := size
			t.Run(algo, func(t *testing.T) {
				t.Parallel()

				dir := t.TempDir()
				key := randomKey(t)
				plaintext := make([]byte, size)
				_, err := rand.Read(plaintext)
				require.NoError(t, err)

				inPath := writeTempFile(t, dir, "plain.bin", plaintext)
				encPath := filepath.Join(dir, "enc.bin")
				decPath := filepath.Join(dir, "dec.bin")

				_, err = EncryptFile(algo, key, inPath, encPath)
				require.NoError(t, err)

				_, err = DecryptFile(algo, key, encPath, decPath)
				require.NoError(t, err)

				got, err := os.ReadFile(decPath)
				require.NoError(t, err)
				require.True(t, bytes.Equal(plaintext, got))
			})
		}
	}
}

func TestEncryptFile_S1Exactly32ByteOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	key := make([]byte, keyLength)
	inPath := writeTempFile(t, dir, "plain.bin", make([]byte, 12))
	outPath := filepath.Join(dir, "enc.bin")

	_, err := EncryptFile("aes", key, inPath, outPath)
	require.NoError(t, err)

	fi, err := os.Stat(outPath)
	require.NoError(t, err)
	require.Equal(t, int64(32), fi.Size())
}

func TestEncryptFile_S2ChaChaEmptyPlaintext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	key := make([]byte, keyLength)
	inPath := writeTempFile(t, dir, "plain.bin", nil)
	outPath := filepath.Join(dir, "enc.bin")

	_, err := EncryptFile("chacha20poly1305", key, inPath, outPath)
	require.NoError(t, err)

	fi, err := os.Stat(outPath)
	require.NoError(t, err)
	require.Equal(t, int64(28), fi.Size())

	decPath := filepath.Join(dir, "dec.bin")
	_, err = DecryptFile("chacha20poly1305", key, outPath, decPath)
	require.NoError(t, err)

	got, err := os.ReadFile(decPath)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecryptFile_NoHeaderNoAlgorithmTag(t *testing.T) {
	t.Parallel()

	// The whole-file format carries no algorithm tag, so decrypting with the
	// wrong algorithm fails as AuthFailure or PaddingError, not a clean
	// AlgorithmMismatch (spec's preserved open question).
	dir := t.TempDir()
	key := make([]byte, keyLength)
	inPath := writeTempFile(t, dir, "plain.bin", []byte("cross-algorithm content"))
	encPath := filepath.Join(dir, "enc.bin")
	decPath := filepath.Join(dir, "dec.bin")

	_, err := EncryptFile("chacha20poly1305", key, inPath, encPath)
	require.NoError(t, err)

	_, err = DecryptFile("aes", key, encPath, decPath)
	require.Error(t, err)
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	require.Contains(t, []Kind{KindPaddingError, KindAuthFailure, KindCrypto}, opErr.Kind)

	_, statErr := os.Stat(decPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestDecryptFile_TamperDetectionDeletesOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	key := make([]byte, keyLength)
	inPath := writeTempFile(t, dir, "plain.bin", []byte("tamper the whole-file blob"))
	encPath := filepath.Join(dir, "enc.bin")
	decPath := filepath.Join(dir, "dec.bin")

	_, err := EncryptFile("chacha20poly1305", key, inPath, encPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(encPath)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(encPath, raw, 0o600))

	_, err = DecryptFile("chacha20poly1305", key, encPath, decPath)
	require.Error(t, err)

	_, statErr := os.Stat(decPath)
	require.True(t, os.IsNotExist(statErr))
}
