package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"
)

const restoreTimeout = 5 * time.Second

func (a *App) getStatus() string {
	if u := a.auth.User(); u != nil && a.isLoggedIn() {
		return fmt.Sprintf("(%s) ", u.Email)
	}
	return ""
}

// Root waits for the stored session to be restored, starts the sign-out
// watcher and runs the REPL on stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Pengaduan CLI (type 'help' for commands)")

	rctx, cancel := context.WithTimeout(ctx, restoreTimeout)
	if err := a.auth.Ready(rctx); err != nil {
		a.log.Warn(ctx, "session restore did not finish", "error", err)
	}
	cancel()

	if a.isLoggedIn() {
		a.bindUserQueries("")
		if u := a.auth.User(); u != nil {
			fmt.Fprintf(a.out, "Welcome back, %s.\n", u.Name)
		}
	} else {
		fmt.Fprintln(a.out, "Not logged in. Type 'login' or 'register'.")
	}

	wctx, stop := context.WithCancel(ctx)
	defer stop()
	go a.WatchRedirects(wctx)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
