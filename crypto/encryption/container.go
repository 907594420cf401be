// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"encoding/binary"
	"fmt"
	"io"
)

// containerMagic is the fixed 8-byte ASCII preamble marking a streaming
// container (spec §4.C).
const containerMagic = "ENCFILE1"

// containerVersion is the only format version this package produces or accepts.
const containerVersion uint16 = 1

// headerSize is the fixed 24-byte container preamble length.
const headerSize = 8 + 2 + 2 + 4 + 8

// ContainerHeader is the fixed preamble written once at the start of a
// streaming-encrypted file, immediately before the first frame (spec §4.C).
type ContainerHeader struct {
	Version   uint16
	Algorithm AlgorithmID
	ChunkSize uint64
}

// writeHeader serializes h to w in the 24-byte layout of spec §6.1.
func writeHeader(w io.Writer, h ContainerHeader) error {
	var buf [headerSize]byte
	copy(buf[0:8], containerMagic)
	binary.LittleEndian.PutUint16(buf[8:10], h.Version)
	binary.LittleEndian.PutUint16(buf[10:12], uint16(h.Algorithm))
	// bytes 12:16 are reserved flags, left zero.
	binary.LittleEndian.PutUint64(buf[16:24], h.ChunkSize)

	if _, err := w.Write(buf[:]); err != nil {
		return newErr(KindIO, "write header", "write container header", err)
	}
	return nil
}

// readHeader parses and validates the 24-byte container preamble from r,
// per spec §4.C's validation order: magic, version, algorithm id, flags.
func readHeader(r io.Reader) (ContainerHeader, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ContainerHeader{}, newErr(KindNotAContainer, "read header", "unable to read 24-byte container header", err)
	}

	if string(buf[0:8]) != containerMagic {
		return ContainerHeader{}, newErr(KindNotAContainer, "read header", "magic bytes do not match", nil)
	}

	version := binary.LittleEndian.Uint16(buf[8:10])
	if version != containerVersion {
		return ContainerHeader{}, newErr(KindUnsupportedVersion, "read header", fmt.Sprintf("unsupported container version %d", version), nil)
	}

	algo := AlgorithmID(binary.LittleEndian.Uint16(buf[10:12]))
	if algo != AlgorithmAESCBC256 && algo != AlgorithmChaCha20Poly1305 {
		return ContainerHeader{}, newErr(KindUnknownAlgorithm, "read header", fmt.Sprintf("unrecognized algorithm id %d", algo), nil)
	}

	flags := binary.LittleEndian.Uint32(buf[12:16])
	if flags != 0 {
		return ContainerHeader{}, newErr(KindUnsupportedFlags, "read header", fmt.Sprintf("reserved flags must be zero, got %#x", flags), nil)
	}

	chunkSize := binary.LittleEndian.Uint64(buf[16:24])

	return ContainerHeader{Version: version, Algorithm: algo, ChunkSize: chunkSize}, nil
}
