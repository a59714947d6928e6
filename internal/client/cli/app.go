package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/launchpad/internal/client/client"
	"github.com/dmitrijs2005/launchpad/internal/client/config"
	"github.com/dmitrijs2005/launchpad/internal/client/repositories"
	"github.com/dmitrijs2005/launchpad/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/launchpad/internal/client/services"
	"github.com/dmitrijs2005/launchpad/internal/client/session"
	"github.com/dmitrijs2005/launchpad/internal/logging"
)

// App is the interactive client. It owns the session, the transport and the
// per-user services, which are rebuilt on every sign-in.
type App struct {
	cfg *config.Config
	log logging.Logger
	db  *sql.DB
	api *client.HTTPClient

	sess    *session.Session
	expired atomic.Bool

	// Rebuilt by wire; only touched from the REPL goroutine.
	profiles *services.ProfileService
	conns    *services.ConnectionService
	inbox    *services.InboxService
	search   *services.SearchPresenter
	chat     *services.ChatService
	current  *services.ChatSession

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database, restores a saved session and wires the
// client stack against cfg.ServerURL.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := repositories.OpenDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init local storage: %w", err)
	}
	a, err := newApp(cfg, log, metadata.NewSessionStore(db))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db

	if err := a.sess.Restore(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session", "error", err)
	}
	return a, nil
}

func newApp(cfg *config.Config, log logging.Logger, store session.Store) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}
	a := &App{
		cfg:    cfg,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	opts := []session.Option{
		session.WithLogger(log.With("component", "session")),
		session.WithExpiryHandler(func() { a.expired.Store(true) }),
	}
	if store != nil {
		opts = append(opts, session.WithStore(store))
	}
	a.sess = session.New(opts...)

	api, err := client.NewHTTPClient(client.Config{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.RequestTimeout,
		Logger:  log.With("component", "client"),
	}, a.sess)
	if err != nil {
		return nil, err
	}
	a.api = api
	a.wire()
	return a, nil
}

// wire replaces the per-user services with fresh ones. Background work of
// the previous connection service is cancelled.
func (a *App) wire() {
	if a.conns != nil {
		a.conns.Close()
	}

	board := services.NewNoticeBoard(a.cfg.NoticeTTL)
	a.profiles = services.NewProfileService(a.api)
	a.conns = services.NewConnectionService(a.api,
		services.WithNotices(board),
		services.WithConnectionLogger(a.log.With("component", "connections")),
		services.WithSettle(a.cfg.SettleDelay, a.cfg.SettleAttempts, a.cfg.SettleDelay/4),
	)
	a.inbox = services.NewInboxService(a.api, a.conns, a.log.With("component", "inbox"))
	a.search = services.NewSearchPresenter(a.api, a.profiles, a.conns, a.log.With("component", "search"))
	a.chat = services.NewChatService(a.api, a.sess, a.cfg.PageSize, a.log.With("component", "chat"))
	a.current = nil
}

// Run starts the REPL on stdin and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	printlnFn("Launchpad CLI (type 'help' for commands)")
	if a.isLoggedIn() {
		a.showDashboard(ctx)
	}
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

// Close stops background work and releases local resources.
func (a *App) Close() error {
	a.conns.Close()
	_ = a.api.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.sess.SignedIn()
}

// checkExpired reports a session that was ended by the backend since the
// last prompt and drops everything cached for that user.
func (a *App) checkExpired() {
	if a.expired.Swap(false) {
		printlnFn(services.MsgSessionExpired)
		a.wire()
	}
}

func (a *App) status() string {
	a.checkExpired()
	if !a.isLoggedIn() {
		return "signed out"
	}
	parts := []string{shortID(a.sess.UserID())}
	if n := a.inbox.PendingCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("inbox:%d", n))
	}
	if a.current != nil {
		parts = append(parts, "chat:"+shortID(a.current.TargetUserID()))
	}
	return strings.Join(parts, " ")
}

func (a *App) showDashboard(ctx context.Context) {
	d, err := services.LoadDashboard(ctx, a.profiles, a.inbox, a.conns)
	if err != nil {
		reportError(err)
		return
	}
	name := a.sess.UserID()
	if d.Profile != nil && d.Profile.Name != "" {
		name = d.Profile.Name
	}
	printf("Signed in as %s. %d pending request(s), %d connection(s).", name, d.PendingCount, len(d.Connections))
	if len(d.Missing) > 0 {
		printf("Your profile is incomplete. Missing: %s", strings.Join(d.Missing, ", "))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
