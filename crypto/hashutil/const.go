// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package hashutil

import (
	// Ensure a sane default import set for crypto hash builders: registering
	// these here means crypto.Hash.New() works for any of them without every
	// caller having to remember its own blank import.
	_ "crypto/md5"
	_ "crypto/sha256"
	_ "crypto/sha512"
)

// maxHashContent bounds how much content Hash/Hashes/FileHash/FileHashes will
// read before giving up, so a hostile or mis-sized input can't be streamed
// into a hash function forever. Raised well past the tens-of-gigabytes
// inputs this package's caller (fileutil.ComputeFileMD5) is exercised
// against, while still rejecting a runaway read.
var maxHashContent uint64 = 256 * 1024 * 1024 * 1024 // 256GiB
