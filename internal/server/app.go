// Package server assembles the API server: storage and migrations, the
// superuser bootstrap, the HTTP API with its optional occupancy dashboard,
// the gRPC mirror and graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/apiapp/internal/dbx"
	"github.com/dmitrijs2005/apiapp/internal/logging"
	"github.com/dmitrijs2005/apiapp/internal/server/auth"
	"github.com/dmitrijs2005/apiapp/internal/server/config"
	"github.com/dmitrijs2005/apiapp/internal/server/httpapi"
	"github.com/dmitrijs2005/apiapp/internal/server/occupancy"
	"github.com/dmitrijs2005/apiapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/apiapp/internal/server/services"

	gs "github.com/dmitrijs2005/apiapp/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

// logOutput is where the JSON log lines go.
var logOutput io.Writer = os.Stdout

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	hasher *auth.Hasher

	httpServer *http.Server
	grpcServer *gs.GRPCServer
}

// NewApp opens the database, applies migrations, bootstraps the superuser
// and builds both transports. The caller must Run or Close the App.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, slog.LevelInfo)

	db, dialect, err := dbx.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}
	if err := app.init(ctx, dialect); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context, dialect dbx.Dialect) error {
	c := app.config

	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		return err
	}
	if err := rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	app.hasher = auth.NewHasher(c.HashWorkers, 0)
	tokens := auth.NewTokenIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	provider := services.NewProvider(rm, app.hasher, tokens)

	su, created, err := provider.Bootstrap(ctx, app.db, c.SuperUserEmail, c.SuperUserPassword)
	if err != nil {
		return fmt.Errorf("superuser bootstrap error: %w", err)
	}
	if created {
		app.logger.Info(ctx, "Superuser created", "email", su.Email, "id", su.ID)
	}

	var opts []httpapi.Option
	if c.OccupancyDataPath != "" {
		data, err := occupancy.Load(ctx, c.OccupancyDataPath, occupancy.S3Options{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			return fmt.Errorf("occupancy data error: %w", err)
		}
		svc, err := occupancy.NewService(data)
		if err != nil {
			return err
		}
		app.logger.Info(ctx, "Occupancy dataset loaded", "rows", data.Len(), "source", c.OccupancyDataPath)
		opts = append(opts, httpapi.WithMount("/occupancy", svc.Routes()))
	}

	api := httpapi.NewServer(app.db, provider, app.logger, opts...)
	app.httpServer = &http.Server{
		Addr:              c.EndpointAddrHTTP,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if c.EndpointAddrGRPC != "" {
		app.grpcServer, err = gs.NewGRPCServer(c.EndpointAddrGRPC, app.logger, app.db, provider)
		if err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the HTTP handler, for embedding and tests.
func (app *App) Handler() http.Handler {
	return app.httpServer.Handler
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.httpServer.Shutdown(sctx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancelFunc()
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.grpcServer.Run(ctx); err != nil {
		cancelFunc()
		return fmt.Errorf("grpc server: %w", err)
	}
	return nil
}

// Run serves until ctx is cancelled, a termination signal arrives or a
// listener fails, then shuts both transports down and releases resources.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(start func(context.Context, context.CancelFunc) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := start(ctx, cancelFunc); err != nil {
				app.logger.Error(ctx, err.Error())
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	run(app.startHTTPServer)
	if app.grpcServer != nil {
		run(app.startGRPCServer)
	}

	wg.Wait()
	app.Close()
	app.logger.Info(context.Background(), "App stopped")

	return errors.Join(errs...)
}

// Close stops the hash workers and closes the database.
func (app *App) Close() {
	if app.hasher != nil {
		app.hasher.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
}
