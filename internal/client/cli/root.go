package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/espm/internal/client/tokens"
)

func (a *App) getStatus() string {
	if !a.authService.HasSession() {
		return "(anonymous)"
	}
	st := a.authService.State()
	if st == tokens.NoSession {
		// refresh token only
		st = tokens.Expired
	}
	return fmt.Sprintf("(%s)", st)
}

// Root prints the greeting, starts the session watcher and runs the REPL on
// the app reader. The watcher is stopped before Root returns.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to ESPM CLI (type 'help' for commands)")

	wctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartSessionWatcher(wctx, a.config.BackgroundRefreshInterval)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	runREPL(ctx, a, a.getStatus, a.reader)
}
