// Package fileengine provides a local-file encryption engine for protecting
// arbitrarily large binary files with symmetric authenticated or
// block-cipher encryption.
//
// The engine exposes whole-file encrypt/decrypt for small inputs
// (crypto/encryption.EncryptFile/DecryptFile) and chunked streaming
// encrypt/decrypt for large inputs (crypto/encryption.ChunkEncryptFile/
// ChunkDecryptFile), processing input in bounded-memory passes regardless
// of file size. Two algorithm families share one on-disk framing layer:
// AES-256-CBC with PKCS#7 padding, and ChaCha20-Poly1305 AEAD.
//
// Key storage, key derivation from passwords, and key rotation are not
// handled here: the engine receives a raw 32-byte key from its caller for
// the duration of a single call and never retains it.
package fileengine
