package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/gophjournal/internal/codec"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/export"
	"github.com/dmitrijs2005/gophjournal/internal/lock"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/reconcile"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophjournal/internal/session"
	"github.com/stretchr/testify/require"
)

// env wires every service over one in-memory SQLite database.
type env struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	sess    *session.Session
	codec   *codec.Codec
	locker  *lock.MemoryLocker
	auth    AuthService
	records *RecordService
	imports *ImportService
	exports *ExportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	db, repos, err := repomanager.Open(ctx, repomanager.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.Discard()
	sess := session.New(cryptox.NewFieldCipher(cryptox.NonceRandom), nil, log)
	c := codec.New(sess)
	ident := reconcile.NewIdentifier(sess, reconcile.DefaultPolicy{})
	locker := lock.NewMemoryLocker()

	auth := NewAuthService(db, repos, log)
	t.Cleanup(auth.Close)

	return &env{
		db:      db,
		repos:   repos,
		sess:    sess,
		codec:   c,
		locker:  locker,
		auth:    auth,
		records: NewRecordService(db, repos, c, ident, log),
		imports: NewImportService(db, repos, reconcile.NewEngine(c, ident, log), locker, log),
		exports: NewExportService(db, repos, export.NewAssembler(c, log), "gophjournal", log),
	}
}

// signIn registers username and installs its key in the session directly.
func (e *env) signIn(t *testing.T, username string) {
	t.Helper()
	ctx := context.Background()

	err := e.auth.Register(ctx, username, []byte("pw-"+username))
	if err != nil {
		require.ErrorContains(t, err, "already exists")
	}
	id, err := e.auth.Login(ctx, username, []byte("pw-"+username))
	require.NoError(t, err)
	require.NoError(t, e.sess.Init(ctx, id))
}
