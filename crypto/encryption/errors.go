// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"errors"
	"fmt"
)

// Kind discriminates the error taxonomy raised by this package so callers
// can react without parsing error strings.
type Kind uint8

const (
	// KindUnknown is never produced directly; it is the zero value of Kind.
	KindUnknown Kind = iota
	// KindInvalidKeyLength is raised when the supplied key is not exactly 32 bytes.
	KindInvalidKeyLength
	// KindUnknownAlgorithm is raised when an algorithm string or header code is unrecognized.
	KindUnknownAlgorithm
	// KindIO is raised when a filesystem operation fails.
	KindIO
	// KindNotAContainer is raised when the header magic doesn't match.
	KindNotAContainer
	// KindUnsupportedVersion is raised when the header version is unrecognized.
	KindUnsupportedVersion
	// KindUnsupportedFlags is raised when the header reserved bits are nonzero.
	KindUnsupportedFlags
	// KindAlgorithmMismatch is raised when the header algorithm differs from the requested one.
	KindAlgorithmMismatch
	// KindTruncatedFrame is raised when EOF happens mid-frame.
	KindTruncatedFrame
	// KindFrameTooLarge is raised when a configured or decoded frame would exceed the 4GiB length prefix.
	KindFrameTooLarge
	// KindAuthFailure is raised when AEAD tag verification fails.
	KindAuthFailure
	// KindPaddingError is raised when PKCS#7 padding is invalid on CBC decrypt.
	KindPaddingError
	// KindCrypto is raised when the underlying cipher primitive fails.
	KindCrypto
)

func (k Kind) String() string {
	switch k {
	case KindInvalidKeyLength:
		return "InvalidKeyLength"
	case KindUnknownAlgorithm:
		return "UnknownAlgorithm"
	case KindIO:
		return "IoError"
	case KindNotAContainer:
		return "NotAContainer"
	case KindUnsupportedVersion:
		return "UnsupportedVersion"
	case KindUnsupportedFlags:
		return "UnsupportedFlags"
	case KindAlgorithmMismatch:
		return "AlgorithmMismatch"
	case KindTruncatedFrame:
		return "TruncatedFrame"
	case KindFrameTooLarge:
		return "FrameTooLarge"
	case KindAuthFailure:
		return "AuthFailure"
	case KindPaddingError:
		return "PaddingError"
	case KindCrypto:
		return "CryptoError"
	default:
		return "Unknown"
	}
}

// OperationError carries the error Kind, the failing stage, a short message
// and the wrapped cause, so that the same taxonomy covers both the whole-file and
// the streaming variants.
type OperationError struct {
	Kind    Kind
	Stage   string
	Message string
	Cause   error
}

func (e *OperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Stage, e.Message)
}

func (e *OperationError) Unwrap() error { return e.Cause }

// newErr builds an *OperationError, wrapping cause when non-nil.
func newErr(kind Kind, stage, message string, cause error) *OperationError {
	return &OperationError{Kind: kind, Stage: stage, Message: message, Cause: cause}
}

// Is allows errors.Is(err, &OperationError{Kind: KindX}) style checks by
// comparing the Kind discriminator, not the pointer identity.
func (e *OperationError) Is(target error) bool {
	var other *OperationError
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}
