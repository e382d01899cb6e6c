package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySalt is the application-wide salt mixed into every field key.
	KeySalt = "gophjournal/field-key/v1"
	// KeyIterations is the PBKDF2 work factor.
	KeyIterations = 100_000
	// KeyLen is the AES-256 key size.
	KeyLen = 32
)

// DerivedKey is the in-memory field encryption key. It is never serialized:
// String and MarshalJSON are redacted on purpose.
type DerivedKey struct {
	b []byte
}

func (k *DerivedKey) String() string { return "DerivedKey(redacted)" }

func (k *DerivedKey) MarshalJSON() ([]byte, error) {
	return nil, errors.New("derived key is not serializable")
}

// Wipe zeroes the key material. The key is unusable afterwards.
func (k *DerivedKey) Wipe() {
	if k == nil {
		return
	}
	for i := range k.b {
		k.b[i] = 0
	}
	k.b = nil
}

func (k *DerivedKey) bytes() ([]byte, error) {
	if k == nil || len(k.b) != KeyLen {
		return nil, errors.New("key is empty")
	}
	return k.b, nil
}

// MakeVerifier returns a value that can be stored to check a master key
// later without storing the key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey stretches the user's password with Argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// SecretDigest renders a master key as the hex digest handed to DeriveKey.
func SecretDigest(masterKey []byte) string {
	return hex.EncodeToString(masterKey)
}

// DeriveKey turns a hex secret digest into the field key with
// PBKDF2-HMAC-SHA256. Equal digests always yield equal keys.
func DeriveKey(secretDigest string) (*DerivedKey, error) {
	if secretDigest == "" {
		return nil, fmt.Errorf("%w: empty digest", ErrKeyDerivation)
	}
	material, err := hex.DecodeString(secretDigest)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed digest: %w", ErrKeyDerivation, err)
	}
	defer wipe(material)

	key := pbkdf2.Key(material, []byte(KeySalt), KeyIterations, KeyLen, sha256.New)
	return &DerivedKey{b: key}, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
