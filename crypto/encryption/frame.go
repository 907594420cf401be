// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// frameLengthSize is the width of the frame's length prefix (spec §4.B):
// 4 bytes, little-endian, so a single frame may carry at most 4GiB of
// sealed bytes.
const frameLengthSize = 4

// maxFrameLength is the largest sealed-bytes length a frame can carry.
const maxFrameLength = 1<<32 - 1

// encodeFrame writes one frame: len(4, LE) || sealed. It is the only place
// that serializes a frame, so every streaming write goes through it.
func encodeFrame(w io.Writer, sealed []byte) error {
	if len(sealed) > maxFrameLength {
		return newErr(KindFrameTooLarge, "encode frame", fmt.Sprintf("sealed frame of %d bytes exceeds the 4GiB length prefix", len(sealed)), nil)
	}

	var lenBuf [frameLengthSize]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(sealed)))

	if _, err := w.Write(lenBuf[:]); err != nil {
		return newErr(KindIO, "encode frame", "write frame length", err)
	}
	if _, err := w.Write(sealed); err != nil {
		return newErr(KindIO, "encode frame", "write frame payload", err)
	}

	return nil
}

// decodeFrame reads the next frame from r. A clean EOF while reading the
// length prefix returns (nil, io.EOF), signaling end-of-stream; any
// other failure, including EOF mid-payload, is a TruncatedFrame.
func decodeFrame(r io.Reader, buf []byte) ([]byte, error) {
	var lenBuf [frameLengthSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, newErr(KindTruncatedFrame, "decode frame", "EOF while reading frame length", err)
	}

	length := binary.LittleEndian.Uint32(lenBuf[:])
	if length > maxFrameLength {
		return nil, newErr(KindFrameTooLarge, "decode frame", fmt.Sprintf("decoded frame length %d exceeds 4GiB", length), nil)
	}

	var payload []byte
	if cap(buf) >= int(length) {
		payload = buf[:length]
	} else {
		payload = make([]byte, length)
	}

	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, newErr(KindTruncatedFrame, "decode frame", "EOF while reading frame payload", err)
	}

	return payload, nil
}
