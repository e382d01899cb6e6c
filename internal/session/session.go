// Package session holds the field key for the signed-in user and exposes
// encrypt/decrypt operations bound to it.
//
// A Session is an explicit value: it is created once, handed to the codec,
// the reconciliation engine and the services, and re-keyed when the identity
// changes. Readers never observe a half-updated key: the key state is an
// immutable snapshot replaced with a single atomic store after derivation
// succeeds.
package session

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// deriveKey is a test seam.
var deriveKey = cryptox.DeriveKey

// ErrNoKey is returned by key-bound operations before a key is ready.
var ErrNoKey = errors.New("encryption key not ready")

// Identity is what the identity source hands over at login: an opaque user
// id and the hex digest of the user's credential.
type Identity struct {
	UserID       string
	SecretDigest string
}

func (id Identity) IsZero() bool { return id.UserID == "" && id.SecretDigest == "" }

// sum identifies an Identity without keeping the digest around.
func (id Identity) sum() [32]byte {
	return sha256.Sum256([]byte(id.UserID + "\x00" + id.SecretDigest))
}

// State is the readiness view of a session.
type State struct {
	UserID   string
	KeyReady bool
	Loading  bool
	Err      error
}

type keyState struct {
	userID  string
	idSum   [32]byte
	key     *cryptox.DerivedKey
	loading bool
	err     error
}

type Session struct {
	cipher     cryptox.Cipher
	classifier cryptox.Classifier
	logger     logging.Logger

	state atomic.Pointer[keyState]

	// mu serializes state stores and guards changed and gen. It is never
	// held across key derivation.
	mu      sync.Mutex
	changed chan struct{}
	gen     uint64
}

// New returns a session without a key. A nil classifier means the heuristic.
func New(c cryptox.Cipher, cl cryptox.Classifier, logger logging.Logger) *Session {
	if cl == nil {
		cl = cryptox.HeuristicClassifier{}
	}
	s := &Session{cipher: c, classifier: cl, logger: logger, changed: make(chan struct{})}
	s.state.Store(&keyState{})
	return s
}

// store publishes st and wakes WaitReady callers. Caller holds mu.
func (s *Session) store(st *keyState) {
	s.state.Store(st)
	close(s.changed)
	s.changed = make(chan struct{})
}

// Init derives the key for id and installs it. While deriving, the previous
// key stays visible only if it belongs to the same user. When another Init or
// Clear runs before derivation finishes, the later call wins and this result
// is dropped.
func (s *Session) Init(ctx context.Context, id Identity) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	prev := s.state.Load()
	loading := &keyState{userID: id.UserID, idSum: id.sum(), loading: true}
	if prev.userID == id.UserID {
		loading.key = prev.key
	}
	s.store(loading)
	s.mu.Unlock()

	key, err := deriveKey(id.SecretDigest)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.logger.Debug(ctx, "key derivation superseded", "user", id.UserID)
		return err
	}
	if err != nil {
		s.logger.Error(ctx, "key derivation failed", "user", id.UserID, "error", err)
		s.store(&keyState{userID: id.UserID, idSum: id.sum(), err: err})
		return err
	}

	s.store(&keyState{userID: id.UserID, idSum: id.sum(), key: key})
	s.logger.Debug(ctx, "session key ready", "user", id.UserID)
	return nil
}

// Clear drops the key, e.g. on logout.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.store(&keyState{})
}

func (s *Session) State() State {
	st := s.state.Load()
	return State{UserID: st.userID, KeyReady: st.key != nil && !st.loading, Loading: st.loading, Err: st.err}
}

// WaitReady blocks until a key is installed, derivation fails or ctx ends.
func (s *Session) WaitReady(ctx context.Context) error {
	return s.WaitUser(ctx, "")
}

// WaitUser is WaitReady for a specific user: a key still held for someone
// else does not count. An empty userID accepts any user.
func (s *Session) WaitUser(ctx context.Context, userID string) error {
	for {
		s.mu.Lock()
		st, ch := s.state.Load(), s.changed
		s.mu.Unlock()

		mine := userID == "" || st.userID == userID
		if mine && st.key != nil && !st.loading {
			return nil
		}
		if mine && st.err != nil {
			return st.err
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Session) key() (*cryptox.DerivedKey, error) {
	st := s.state.Load()
	if st.key == nil {
		if st.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoKey, st.err)
		}
		return nil, ErrNoKey
	}
	return st.key, nil
}

func (s *Session) IsEncrypted(text string) bool {
	return s.classifier.IsEncrypted(text)
}

// Encrypt seals text unless it already looks sealed.
func (s *Session) Encrypt(text string) (string, error) {
	key, err := s.key()
	if err != nil {
		return "", err
	}
	if s.classifier.IsEncrypted(text) {
		return text, nil
	}
	return s.cipher.Encrypt(text, key)
}

// Seal encrypts text without consulting the classifier. Use it for values
// known to be plaintext, such as user input, which may happen to look sealed.
func (s *Session) Seal(text string) (string, error) {
	key, err := s.key()
	if err != nil {
		return "", err
	}
	return s.cipher.Encrypt(text, key)
}

// Decrypt opens text when it looks sealed and returns plaintext unchanged.
func (s *Session) Decrypt(text string) (string, error) {
	key, err := s.key()
	if err != nil {
		return "", err
	}
	if !s.classifier.IsEncrypted(text) {
		return text, nil
	}
	return s.cipher.Decrypt(text, key)
}

// Open decrypts text without consulting the classifier. Use it for values
// known to be sealed.
func (s *Session) Open(text string) (string, error) {
	key, err := s.key()
	if err != nil {
		return "", err
	}
	return s.cipher.Decrypt(text, key)
}

// Fingerprint is cryptox.Fingerprint under the session key.
func (s *Session) Fingerprint(parts ...string) (string, error) {
	key, err := s.key()
	if err != nil {
		return "", err
	}
	return cryptox.Fingerprint(key, parts...)
}
