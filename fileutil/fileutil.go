// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package fileutil provides small filesystem utilities used alongside the
// encryption engine: file size lookup and a streaming MD5 digest (spec §4.G).
package fileutil

import (
	"crypto"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/vaultstream/fileengine/crypto/hashutil"
)

// GetFileSize returns the byte size of the file at path.
func GetFileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("unable to stat %q: %w", path, err)
	}
	return fi.Size(), nil
}

// ComputeFileMD5 returns the lowercase hex MD5 digest of the file at path,
// streaming fixed-size reads (via hashutil.Hash) so the whole file is never
// held in memory.
func ComputeFileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("unable to open %q: %w", path, err)
	}
	defer f.Close()

	sum, err := hashutil.Hash(f, crypto.MD5) //nolint:gosec // MD5 is required for wire-compatible file fingerprinting, not for security.
	if err != nil {
		return "", fmt.Errorf("unable to hash %q: %w", path, err)
	}

	return hex.EncodeToString(sum), nil
}
