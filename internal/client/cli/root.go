package cli

import (
	"bufio"
	"context"
	"errors"
	"os"
	"time"

	"github.com/dmitrijs2005/apiapp/internal/client/client"
)

// Root greets the user, probes the server and runs the REPL on stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the API CLI (type 'help' for commands)")

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.client.Ping(pctx)
	cancel()
	if errors.Is(err, client.ErrUnavailable) {
		printlnFn("Warning: server", a.config.ServerURL, "is unavailable")
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
