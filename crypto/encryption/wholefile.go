// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"fmt"
	"os"

	"github.com/vaultstream/fileengine/ioutil/atomic"
)

// EncryptResult reports the outcome of a whole-file encryption (spec §4.F).
type EncryptResult struct {
	FileSizeKB int64
}

// DecryptResult reports the outcome of a whole-file decryption (spec §4.F).
type DecryptResult struct {
	FileSizeKB      int64
	EncryptedSizeKB int64
}

// EncryptFile reads inPath entirely into memory, seals it in a single call
// and writes the sealed bytes directly to outPath with no container header
// and no length prefix (spec §4.F, §6.2). Intended for small inputs; large
// inputs should use ChunkEncryptFile instead.
func EncryptFile(algo string, key []byte, inPath, outPath string) (EncryptResult, error) {
	algoID, err := ParseAlgorithm(algo)
	if err != nil {
		return EncryptResult{}, err
	}

	lk, err := newLockedKey(key)
	if err != nil {
		return EncryptResult{}, err
	}
	defer lk.Destroy()

	plaintext, err := os.ReadFile(inPath)
	if err != nil {
		return EncryptResult{}, newErr(KindIO, "encrypt file", fmt.Sprintf("read input %q", inPath), err)
	}

	sealed, err := seal(algoID, lk.Bytes(), plaintext)
	if err != nil {
		return EncryptResult{}, err
	}

	if err := writeWholeFile(outPath, sealed); err != nil {
		return EncryptResult{}, newErr(KindIO, "encrypt file", fmt.Sprintf("write output %q", outPath), err)
	}

	return EncryptResult{FileSizeKB: int64(len(plaintext)) / bytesPerKB}, nil
}

// DecryptFile reverses EncryptFile: the whole-file format carries no
// algorithm tag, so a mismatched algo does not surface a clean
// AlgorithmMismatch here — it fails as AuthFailure or PaddingError instead,
// exactly as a caller who forgot which algorithm it used would observe
// (spec §9 "Open question": preserved, not fixed).
func DecryptFile(algo string, key []byte, inPath, outPath string) (DecryptResult, error) {
	algoID, err := ParseAlgorithm(algo)
	if err != nil {
		return DecryptResult{}, err
	}

	lk, err := newLockedKey(key)
	if err != nil {
		return DecryptResult{}, err
	}
	defer lk.Destroy()

	sealed, err := os.ReadFile(inPath)
	if err != nil {
		return DecryptResult{}, newErr(KindIO, "decrypt file", fmt.Sprintf("read input %q", inPath), err)
	}

	plaintext, err := open(algoID, lk.Bytes(), sealed)
	if err != nil {
		return DecryptResult{}, err
	}

	if err := writeWholeFile(outPath, plaintext); err != nil {
		return DecryptResult{}, newErr(KindIO, "decrypt file", fmt.Sprintf("write output %q", outPath), err)
	}

	return DecryptResult{
		FileSizeKB:      int64(len(plaintext)) / bytesPerKB,
		EncryptedSizeKB: int64(len(sealed)) / bytesPerKB,
	}, nil
}

// writeWholeFile commits content to path atomically in one shot, deleting
// the temporary file on any failure.
func writeWholeFile(path string, content []byte) error {
	w, err := atomic.NewWriter(path)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			w.Abort()
		}
	}()

	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	if err := w.Commit(); err != nil {
		return fmt.Errorf("commit content: %w", err)
	}
	committed = true

	return nil
}
