// Package services holds the application services behind the CLI: local
// accounts, record editing, import and export.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/metadata"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophjournal/internal/session"
)

const saltSize = 16

// AuthService manages local accounts and announces who is signed in.
//
// Contract:
//   - Register: store a salt and verifier for a new username.
//   - Login: check the password and publish the user's Identity.
//   - Logout: forget the Identity and publish a zero one.
//   - Current: the signed-in Identity; it also makes AuthService a
//     session.Source for polling.
//   - Identities: the event stream consumed by session.Watch. Only the
//     latest unread value is kept.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (session.Identity, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (session.Identity, bool, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Identities() <-chan session.Identity
	Close()
}

type authService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger

	mu      sync.Mutex
	current session.Identity
	ids     chan session.Identity
	closed  bool
}

func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) AuthService {
	return &authService{db: db, repos: repos, logger: logger, ids: make(chan session.Identity, 1)}
}

func (a *authService) metadata() metadata.Repository {
	return a.repos.Metadata(a.db)
}

func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	if username == "" || len(password) == 0 {
		return fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	existing, err := a.metadata().Get(ctx, metadata.UserKey(username, "salt"))
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("user %s: %w", username, common.ErrorAlreadyExists)
	}

	salt := common.GenerateRandByteArray(saltSize)
	key := cryptox.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)
	verifier := cryptox.MakeVerifier(key)
	created := []byte(time.Now().UTC().Format(time.RFC3339))

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.repos.Metadata(tx)
		if err := repo.Set(ctx, metadata.UserKey(username, "salt"), salt); err != nil {
			return err
		}
		if err := repo.Set(ctx, metadata.UserKey(username, "verifier"), verifier); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.UserKey(username, "created_at"), created)
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", username, err)
	}

	a.logger.Info(ctx, "user registered", "user", username)
	return nil
}

// Login derives the master key from password and the stored salt and checks
// it against the stored verifier. Unknown users and wrong passwords fail the
// same way.
func (a *authService) Login(ctx context.Context, username string, password []byte) (session.Identity, error) {
	repo := a.metadata()

	salt, err := repo.Get(ctx, metadata.UserKey(username, "salt"))
	if err != nil {
		return session.Identity{}, fmt.Errorf("lookup user: %w", err)
	}
	verifier, err := repo.Get(ctx, metadata.UserKey(username, "verifier"))
	if err != nil {
		return session.Identity{}, fmt.Errorf("lookup user: %w", err)
	}
	if salt == nil || verifier == nil {
		return session.Identity{}, common.ErrorUnauthorized
	}

	key := cryptox.DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)

	if subtle.ConstantTimeCompare(verifier, cryptox.MakeVerifier(key)) == 0 {
		return session.Identity{}, common.ErrorUnauthorized
	}

	id := session.Identity{UserID: username, SecretDigest: cryptox.SecretDigest(key)}
	if err := repo.Set(ctx, metadata.KeyCurrentUser, []byte(username)); err != nil {
		return session.Identity{}, fmt.Errorf("remember user: %w", err)
	}

	a.mu.Lock()
	a.current = id
	a.publish(id)
	a.mu.Unlock()

	a.logger.Info(ctx, "user logged in", "user", username)
	return id, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.mu.Lock()
	user := a.current.UserID
	a.current = session.Identity{}
	a.publish(session.Identity{})
	a.mu.Unlock()

	if err := a.metadata().Delete(ctx, metadata.KeyCurrentUser); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.logger.Info(ctx, "user logged out", "user", user)
	return nil
}

func (a *authService) Current(ctx context.Context) (session.Identity, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current, !a.current.IsZero(), nil
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	id, ok, _ := a.Current(ctx)
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	u := &models.User{Username: id.UserID}
	raw, err := a.metadata().Get(ctx, metadata.UserKey(id.UserID, "created_at"))
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if raw != nil {
		if t, err := time.Parse(time.RFC3339, string(raw)); err == nil {
			u.CreatedAt = t
		}
	}
	return u, nil
}

func (a *authService) Identities() <-chan session.Identity {
	return a.ids
}

// Close ends the identity stream.
func (a *authService) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.closed {
		a.closed = true
		close(a.ids)
	}
}

// publish replaces any unread identity with id. Caller holds mu.
func (a *authService) publish(id session.Identity) {
	if a.closed {
		return
	}
	for {
		select {
		case a.ids <- id:
			return
		default:
		}
		select {
		case <-a.ids:
		default:
		}
	}
}
