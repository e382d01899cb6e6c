package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/client/config"
	"github.com/dmitrijs2005/gophjournal/internal/codec"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/export"
	"github.com/dmitrijs2005/gophjournal/internal/lock"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/reconcile"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophjournal/internal/services"
	"github.com/dmitrijs2005/gophjournal/internal/session"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	session *session.Session
	auth    services.AuthService
	records *services.RecordService
	imports *services.ImportService
	exports *services.ExportService

	fileSink export.Sink
	// s3Sink is nil unless an S3 bucket is configured.
	s3Sink export.Sink

	closers []func() error

	userID string
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens storage and wires the services for cfg. The returned App
// owns the database and any Redis connection; release them with Close.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	mode, err := cryptox.ParseNonceMode(cfg.NonceMode)
	if err != nil {
		return nil, err
	}

	db, repos, err := repomanager.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	a := &App{
		config: cfg,
		logger: logger,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	a.closers = append(a.closers, db.Close)

	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.RedisURL != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		locker = lock.NewRedisLocker(client, cfg.LockTTL)
	}

	a.session = session.New(cryptox.NewFieldCipher(mode), nil, logger.With("component", "session"))
	c := codec.New(a.session)
	ident := reconcile.NewIdentifier(a.session, reconcile.DefaultPolicy{FoldDescription: cfg.FoldDescription})

	a.auth = services.NewAuthService(db, repos, logger.With("component", "auth"))
	a.records = services.NewRecordService(db, repos, c, ident, logger.With("component", "records"))
	a.imports = services.NewImportService(db, repos,
		reconcile.NewEngine(c, ident, logger.With("component", "reconcile")),
		locker, logger.With("component", "import"))
	a.exports = services.NewExportService(db, repos,
		export.NewAssembler(c, logger.With("component", "export")),
		cfg.ProductName, logger.With("component", "export"))

	a.fileSink = export.NewFileSink(cfg.ExportDir)
	if cfg.S3Bucket != "" {
		a.s3Sink = export.NewS3Sink(export.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Prefix:       cfg.S3Prefix,
		})
	}

	return a, nil
}

// Close ends the identity stream and releases storage in reverse order of
// acquisition.
func (a *App) Close() error {
	if a.auth != nil {
		a.auth.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// StartIdentityWatcher keeps the session key in step with the signed-in
// user. In event mode it follows the auth service's identity stream; in
// poll mode it asks the auth service at the configured interval. It
// returns once ctx is done or the stream is closed.
func (a *App) StartIdentityWatcher(ctx context.Context) {
	if a.config.IdentityMode == config.IdentityPoll {
		a.session.Poll(ctx, a.auth, a.config.IdentityPollInterval)
		return
	}
	a.session.Watch(ctx, a.auth.Identities())
}

// Run starts the identity watcher and the REPL on stdin. It blocks until
// the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartIdentityWatcher(ctx)

	fmt.Fprintln(a.out, "Welcome to GophJournal CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.userID != ""
}

func (a *App) getStatus() string {
	if a.userID == "" {
		return "(anonymous)"
	}
	st := a.session.State()
	switch {
	case st.KeyReady:
		return fmt.Sprintf("(%s)", a.userID)
	case st.Loading:
		return fmt.Sprintf("(%s, unlocking)", a.userID)
	default:
		return fmt.Sprintf("(%s, locked)", a.userID)
	}
}

// fail reports err to the user and the log, then returns it.
func (a *App) fail(ctx context.Context, op string, err error) error {
	a.logger.Error(ctx, op+" failed", "error", err)
	fmt.Fprintf(a.out, "error: %v\n", err)
	return err
}
