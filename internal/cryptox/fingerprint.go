package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const fingerprintInfo = "gophjournal/fingerprint/v1"

// Fingerprint returns a keyed, deterministic digest of parts. It lets records
// be compared for equality without comparing ciphertext. The HMAC key is an
// HKDF sub-key, so the field key itself never touches the MAC.
func Fingerprint(key *DerivedKey, parts ...string) (string, error) {
	kb, err := key.bytes()
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	sub := make([]byte, KeyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, kb, nil, []byte(fingerprintInfo)), sub); err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	defer wipe(sub)

	mac := hmac.New(sha256.New, sub)
	for _, p := range parts {
		// length prefix keeps ("ab","c") and ("a","bc") apart
		fmt.Fprintf(mac, "%d:", len(p))
		io.WriteString(mac, p)
	}
	return hex.EncodeToString(mac.Sum(nil)), nil
}
