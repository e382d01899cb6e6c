package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const nonceSize = 12

// NonceMode selects how field nonces are produced.
type NonceMode string

const (
	// NonceRandom draws a fresh nonce per call. Duplicate detection then
	// relies on Fingerprint rather than on ciphertext equality.
	NonceRandom NonceMode = "random"
	// NonceDeterministic derives the nonce from the plaintext, so equal
	// plaintexts produce equal ciphertexts under one key. Kept for data
	// written by older clients.
	NonceDeterministic NonceMode = "deterministic"
)

// ParseNonceMode maps a config value to a NonceMode.
func ParseNonceMode(s string) (NonceMode, error) {
	switch NonceMode(s) {
	case NonceRandom, NonceDeterministic:
		return NonceMode(s), nil
	case "":
		return NonceRandom, nil
	}
	return "", fmt.Errorf("unknown nonce mode %q", s)
}

// Cipher seals and opens single text fields.
type Cipher interface {
	Encrypt(plaintext string, key *DerivedKey) (string, error)
	Decrypt(encrypted string, key *DerivedKey) (string, error)
}

// FieldCipher is the AES-256-GCM Cipher. Both modes share one wire format,
// base64(nonce || ciphertext || tag), so Decrypt does not care which mode
// produced a value.
type FieldCipher struct {
	mode NonceMode
}

func NewFieldCipher(mode NonceMode) *FieldCipher {
	if mode == "" {
		mode = NonceRandom
	}
	return &FieldCipher{mode: mode}
}

func (c *FieldCipher) Mode() NonceMode { return c.mode }

func (c *FieldCipher) Encrypt(plaintext string, key *DerivedKey) (string, error) {
	if c.mode == NonceDeterministic {
		return EncryptField(plaintext, key)
	}
	return SealField(plaintext, key)
}

func (c *FieldCipher) Decrypt(encrypted string, key *DerivedKey) (string, error) {
	return DecryptField(encrypted, key)
}

// EncryptField seals plaintext with a nonce taken from the plaintext itself.
// It is a pure function of (plaintext, key).
//
// Two plaintexts sharing their first 12 characters reuse a nonce under the
// same key, which breaks GCM confidentiality for that pair. Prefer SealField.
func EncryptField(plaintext string, key *DerivedKey) (string, error) {
	return seal(plaintext, deterministicNonce(plaintext), key)
}

// SealField seals plaintext under a random nonce.
func SealField(plaintext string, key *DerivedKey) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("%w: nonce: %w", ErrEncryption, err)
	}
	return seal(plaintext, nonce, key)
}

// DecryptField opens a value produced by EncryptField or SealField.
// Failures of any kind wrap ErrDecryption.
func DecryptField(encrypted string, key *DerivedKey) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: not base64: %w", ErrDecryption, err)
	}

	aead, err := newGCM(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryption, err)
	}
	if len(raw) < nonceSize+aead.Overhead() {
		return "", fmt.Errorf("%w: input too short", ErrDecryption)
	}

	plain, err := aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	// Fields are sealed as JSON strings; anything else is returned verbatim.
	var s string
	if err := json.Unmarshal(plain, &s); err == nil {
		return s, nil
	}
	return string(plain), nil
}

func seal(plaintext string, nonce []byte, key *DerivedKey) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	payload, err := json.Marshal(plaintext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	out := make([]byte, 0, nonceSize+len(payload)+aead.Overhead())
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, payload, nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

func newGCM(key *DerivedKey) (cipher.AEAD, error) {
	kb, err := key.bytes()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(kb)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// deterministicNonce maps the first 12 characters of the plaintext, right
// padded with '0', onto bytes. Characters above U+00FF keep their low byte.
func deterministicNonce(plaintext string) []byte {
	nonce := make([]byte, 0, nonceSize)
	for _, r := range plaintext {
		if len(nonce) == nonceSize {
			break
		}
		nonce = append(nonce, byte(r&0xFF))
	}
	for len(nonce) < nonceSize {
		nonce = append(nonce, '0')
	}
	return nonce
}
