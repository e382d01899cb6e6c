package cryptox

import "regexp"

// Classifier decides whether a stored value is ciphertext or plaintext.
type Classifier interface {
	IsEncrypted(text string) bool
}

var base64Alphabet = regexp.MustCompile(`^[A-Za-z0-9+/=]+$`)

// minCiphertextLen is strictly below the shortest possible sealed field:
// base64 of a 12-byte nonce plus a 16-byte tag is 40 characters.
const minCiphertextLen = 24

// HeuristicClassifier guesses by shape: long enough and base64-only.
// Long base64-looking plaintext is a known false positive.
type HeuristicClassifier struct{}

func (HeuristicClassifier) IsEncrypted(text string) bool {
	return IsEncrypted(text)
}

// IsEncrypted reports whether text looks like a sealed field.
func IsEncrypted(text string) bool {
	return len(text) > minCiphertextLen && base64Alphabet.MatchString(text)
}
