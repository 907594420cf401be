// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"fmt"

	"github.com/awnumar/memguard"
)

// keyLength is the only accepted raw key size (spec §3 "Key").
const keyLength = 32

// lockedKey borrows the caller's key for the duration of one call. The key
// is copied into a memguard.LockedBuffer (locked, non-swappable memory) and
// wiped on Destroy, which every public operation calls on every exit path;
// the caller's own slice is never retained beyond the call (spec §3
// "Lifecycle", §5 "Shared-resource policy").
type lockedKey struct {
	buf *memguard.LockedBuffer
}

func newLockedKey(key []byte) (*lockedKey, error) {
	if len(key) != keyLength {
		return nil, newErr(KindInvalidKeyLength, "validate key", fmt.Sprintf("key must be exactly %d bytes, got %d", keyLength, len(key)), nil)
	}
	return &lockedKey{buf: memguard.NewBufferFromBytes(append([]byte(nil), key...))}, nil
}

func (k *lockedKey) Bytes() []byte { return k.buf.Bytes() }

func (k *lockedKey) Destroy() { k.buf.Destroy() }
