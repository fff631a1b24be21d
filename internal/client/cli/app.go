package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/espm/internal/client/client"
	"github.com/dmitrijs2005/espm/internal/client/config"
	"github.com/dmitrijs2005/espm/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/espm/internal/client/services"
	"github.com/dmitrijs2005/espm/internal/client/tokens"
	"github.com/dmitrijs2005/espm/internal/client/tokenstore"
	"github.com/dmitrijs2005/espm/internal/filex"
	"github.com/dmitrijs2005/espm/internal/logging"
)

// closeTimeout bounds how long Run waits for background refreshes on exit.
const closeTimeout = 5 * time.Second

type App struct {
	config          *config.Config
	db              *sql.DB
	authService     services.AuthService
	concursoService services.ConcursoService
	log             logging.Logger
	reader          *bufio.Reader
	out             io.Writer
}

// NewApp opens local storage, restores the stored session and wires the
// identity and tender API clients.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel, c.LogFormat, os.Stderr)

	if _, err := filex.EnsureParentDir(c.DBPath); err != nil {
		logger.Error(ctx, "error preparing database directory", "error", err)
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store, err := tokenstore.Open(ctx, db, tokenstore.WithPassphrase(c.StoragePassphrase), tokenstore.WithLogger(logger))
	if err != nil {
		db.Close()
		logger.Error(ctx, "error restoring session", "error", err)
		return nil, err
	}

	// Requests carry the coordinator's token, and the coordinator itself
	// talks to the identity server through the same client. Identity calls
	// are anonymous so the transport never asks for a token there.
	var auth services.AuthService
	httpClient := client.NewHTTPClient(c.HTTPTimeout, client.TokenSourceFunc(func(ctx context.Context) (string, error) {
		return auth.Token(ctx)
	}))

	idp := client.NewHTTPIdentityClient(c.IdentityServerURL, httpClient)
	auth = services.NewAuthService(idp, store, tokens.NewInspector(c.ExpiryLeadWindow), c.Clients,
		services.WithLogger(logger),
		services.WithScope(c.DefaultScopes),
		services.WithBackgroundInterval(c.BackgroundRefreshInterval),
	)

	api := client.NewSelecaoClient(c.EmpregabilidadeURL, c.ESPMURL, httpClient)
	cs := services.NewConcursoService(api, favorites.NewSQLiteRepository(db), auth, logger)

	return &App{
		config:          c,
		db:              db,
		authService:     auth,
		concursoService: cs,
		log:             logger,
		reader:          bufio.NewReader(os.Stdin),
		out:             os.Stdout,
	}, nil
}

// Run blocks in the REPL until the user exits, then waits for background
// refreshes and closes the database.
func (a *App) Run(ctx context.Context) {
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if err := a.authService.Close(closeCtx); err != nil {
			a.log.Warn(ctx, "background refresh still running on exit", "error", err)
		}
		if a.db != nil {
			a.db.Close()
		}
	}()
	a.Root(ctx)
}

// StartSessionWatcher keeps the stored session fresh while the REPL idles
// and logs every session state change. A refresh token rejected by the
// identity server ends the session, so it is not retried on every tick.
// It returns when ctx is done.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := a.authService.State()
	for {
		select {
		case <-ticker.C:
			if a.authService.HasSession() {
				a.refreshSession(ctx)
			}

			if st := a.authService.State(); st != last {
				a.log.Info(ctx, "session state changed", "from", last.String(), "to", st.String())
				last = st
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) refreshSession(ctx context.Context) {
	rctx, cancel := context.WithTimeout(ctx, a.config.HTTPTimeout)
	defer cancel()

	_, err := a.authService.RefreshAccessTokenIfNeeded(rctx)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNoRefreshToken):
		a.log.Debug(ctx, "session has no refresh token")
	case errors.Is(err, client.ErrUnauthorized):
		a.log.Warn(ctx, "refresh token rejected, logging out", "error", err)
		a.authService.Logout(ctx)
	default:
		a.log.Warn(ctx, "session refresh failed", "error", err)
	}
}
