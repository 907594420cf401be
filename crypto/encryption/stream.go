// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/vaultstream/fileengine/ioutil/atomic"
)

const (
	// bytesPerMiB converts a caller-supplied chunk size in MiB to bytes.
	bytesPerMiB = 1 << 20
	// bytesPerKB is the legacy reporting unit for result sizes (spec §6.3/§9).
	bytesPerKB = 1024
)

// ChunkEncryptResult reports the outcome of a streaming encryption (spec §4.D).
type ChunkEncryptResult struct {
	FileSizeKB  int64
	ChunkSizeKB int64
	TotalChunks int
}

// ChunkDecryptResult reports the outcome of a streaming decryption (spec §4.E).
type ChunkDecryptResult struct {
	OriginalSizeKB int64
	TotalBytesKB   int64
	ChunkSizeKB    int64
	TotalChunks    int
}

// ChunkEncryptFile encrypts inPath to outPath as a self-describing streaming
// container: a 24-byte header followed by one frame per chunkSizeMiB-sized
// read of the input. Memory use is bounded by chunkSizeMiB regardless of the
// input's total size (spec §4.D).
func ChunkEncryptFile(algo string, key []byte, inPath, outPath string, chunkSizeMiB int) (ChunkEncryptResult, error) {
	algoID, err := ParseAlgorithm(algo)
	if err != nil {
		return ChunkEncryptResult{}, err
	}
	if chunkSizeMiB < 1 {
		return ChunkEncryptResult{}, newErr(KindCrypto, "chunk encrypt", "chunkSizeMiB must be at least 1", nil)
	}
	chunkSize := uint64(chunkSizeMiB) * bytesPerMiB

	lk, err := newLockedKey(key)
	if err != nil {
		return ChunkEncryptResult{}, err
	}
	defer lk.Destroy()

	in, err := os.Open(inPath)
	if err != nil {
		return ChunkEncryptResult{}, newErr(KindIO, "chunk encrypt", fmt.Sprintf("open input %q", inPath), err)
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return ChunkEncryptResult{}, newErr(KindIO, "chunk encrypt", "stat input", err)
	}

	out, err := atomic.NewWriter(outPath)
	if err != nil {
		return ChunkEncryptResult{}, newErr(KindIO, "chunk encrypt", fmt.Sprintf("open output %q", outPath), err)
	}
	committed := false
	defer func() {
		if !committed {
			out.Abort()
		}
	}()

	bw := bufio.NewWriter(out)
	if err := writeHeader(bw, ContainerHeader{Version: containerVersion, Algorithm: algoID, ChunkSize: chunkSize}); err != nil {
		return ChunkEncryptResult{}, err
	}

	buf := make([]byte, chunkSize)
	totalChunks := 0

	for {
		n, readErr := io.ReadFull(in, buf)
		if n > 0 {
			sealed, err := seal(algoID, lk.Bytes(), buf[:n])
			if err != nil {
				return ChunkEncryptResult{}, err
			}
			if err := encodeFrame(bw, sealed); err != nil {
				return ChunkEncryptResult{}, err
			}
			totalChunks++
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return ChunkEncryptResult{}, newErr(KindIO, "chunk encrypt", "read input chunk", readErr)
		}
	}

	if err := bw.Flush(); err != nil {
		return ChunkEncryptResult{}, newErr(KindIO, "chunk encrypt", "flush output", err)
	}
	if err := out.Commit(); err != nil {
		return ChunkEncryptResult{}, newErr(KindIO, "chunk encrypt", "commit output", err)
	}
	committed = true

	return ChunkEncryptResult{
		FileSizeKB:  fi.Size() / bytesPerKB,
		ChunkSizeKB: int64(chunkSize) / bytesPerKB,
		TotalChunks: totalChunks,
	}, nil
}

// ChunkDecryptFile reverses ChunkEncryptFile: it validates the container
// header, cross-checks its algorithm against algo, then decodes and opens
// one frame at a time until a clean end-of-stream (spec §4.E). Any failure
// aborts the operation and best-effort deletes a partially written outPath.
func ChunkDecryptFile(algo string, key []byte, inPath, outPath string) (ChunkDecryptResult, error) {
	algoID, err := ParseAlgorithm(algo)
	if err != nil {
		return ChunkDecryptResult{}, err
	}

	lk, err := newLockedKey(key)
	if err != nil {
		return ChunkDecryptResult{}, err
	}
	defer lk.Destroy()

	in, err := os.Open(inPath)
	if err != nil {
		return ChunkDecryptResult{}, newErr(KindIO, "chunk decrypt", fmt.Sprintf("open input %q", inPath), err)
	}
	defer in.Close()

	br := bufio.NewReader(in)
	header, err := readHeader(br)
	if err != nil {
		return ChunkDecryptResult{}, err
	}
	if header.Algorithm != algoID {
		return ChunkDecryptResult{}, newErr(KindAlgorithmMismatch, "chunk decrypt",
			fmt.Sprintf("requested algorithm %q does not match container algorithm %q", algoID, header.Algorithm), nil)
	}

	out, err := atomic.NewWriter(outPath)
	if err != nil {
		return ChunkDecryptResult{}, newErr(KindIO, "chunk decrypt", fmt.Sprintf("open output %q", outPath), err)
	}
	committed := false
	defer func() {
		if !committed {
			out.Abort()
		}
	}()

	bw := bufio.NewWriter(out)

	var (
		totalBytes  int64
		totalChunks int
	)
	buf := make([]byte, header.ChunkSize+maxFrameOverhead)

	for {
		sealed, err := decodeFrame(br, buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return ChunkDecryptResult{}, err
		}

		plaintext, err := open(algoID, lk.Bytes(), sealed)
		if err != nil {
			return ChunkDecryptResult{}, err
		}
		if _, err := bw.Write(plaintext); err != nil {
			return ChunkDecryptResult{}, newErr(KindIO, "chunk decrypt", "write output chunk", err)
		}

		totalBytes += int64(len(plaintext))
		totalChunks++
	}

	if err := bw.Flush(); err != nil {
		return ChunkDecryptResult{}, newErr(KindIO, "chunk decrypt", "flush output", err)
	}
	if err := out.Commit(); err != nil {
		return ChunkDecryptResult{}, newErr(KindIO, "chunk decrypt", "commit output", err)
	}
	committed = true

	return ChunkDecryptResult{
		OriginalSizeKB: totalBytes / bytesPerKB,
		TotalBytesKB:   totalBytes / bytesPerKB,
		ChunkSizeKB:    int64(header.ChunkSize) / bytesPerKB,
		TotalChunks:    totalChunks,
	}, nil
}

// maxFrameOverhead bounds the largest per-frame overhead across algorithm
// families, used to size the reusable frame buffer so it need not grow
// across successive decodeFrame calls for the common case.
const maxFrameOverhead = 32
