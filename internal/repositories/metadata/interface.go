// Package metadata is a small key/value store for local account data:
// password salts, verifiers and the last signed-in user.
package metadata

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophjournal/internal/dbx"
)

type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// List returns every pair whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}

// Well-known keys.
const (
	KeyCurrentUser = "session:current_user"
	userPrefix     = "user:"
)

// UserKey namespaces an account attribute such as "salt" or "verifier".
func UserKey(username, attr string) string {
	return userPrefix + username + ":" + attr
}

// UserPrefix matches every attribute stored for username.
func UserPrefix(username string) string {
	return userPrefix + username + ":"
}

type pair struct {
	key   string
	value []byte
}

func scanPair(row dbx.Scanner) (pair, error) {
	var p pair
	err := row.Scan(&p.key, &p.value)
	return p, err
}

// scanValue maps a missing row to (nil, nil).
func scanValue(row dbx.Scanner) ([]byte, error) {
	var v []byte
	switch err := row.Scan(&v); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return v, nil
}

func collect(pairs []pair) map[string][]byte {
	m := make(map[string][]byte, len(pairs))
	for _, p := range pairs {
		m[p.key] = p.value
	}
	return m
}
