// Package cryptox implements the field-level encryption primitives used by the
// journal client: key derivation, AES-GCM field sealing, ciphertext
// classification and keyed fingerprints for duplicate detection.
package cryptox

import "errors"

var (
	// ErrKeyDerivation is returned when the secret digest cannot be turned
	// into a key. It is fatal for the session until the user re-authenticates.
	ErrKeyDerivation = errors.New("key derivation failed")

	// ErrDecryption means a field could not be opened with the given key:
	// wrong key, truncated input or a failed authentication tag.
	ErrDecryption = errors.New("decryption failed")

	ErrEncryption = errors.New("encryption failed")
)
