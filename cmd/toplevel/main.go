// Command toplevel serves one of the query-token demo applications.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/apiapp/internal/logging"
	"github.com/dmitrijs2005/apiapp/internal/querytoken"
	"github.com/dmitrijs2005/apiapp/internal/toplevel"
)

func main() {
	mode := flag.String("mode", string(toplevel.ModeGroup), "where the guard is attached: group or global")
	token := flag.String("token", querytoken.DefaultToken, "expected query token")
	addr := flag.String("a", ":8000", "listen address")
	flag.Parse()

	h, ok := toplevel.New(toplevel.Mode(*mode), *token)
	if !ok {
		log.Fatalf("unknown mode %q", *mode)
	}

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo).With("mode", *mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	if err := toplevel.Serve(ctx, listener, h, logger); err != nil {
		log.Fatalf("%v", err)
	}
}
