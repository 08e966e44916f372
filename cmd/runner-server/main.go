// Command runner-server serves the score leaderboard over HTTP.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/MJE43/runner-go/internal/api"
	"github.com/MJE43/runner-go/internal/config"
	"github.com/MJE43/runner-go/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("dotenv: %v", err)
	}
	cfg := config.LoadServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("runner-server: %v", err)
	}
}

func run(ctx context.Context, cfg config.Server) (err error) {
	log.Printf("Starting runner-server %s (Go %s) store=%s", api.Version, runtime.Version(), cfg.Store)

	db, err := store.Open(ctx, store.Config{
		Backend:     cfg.Store,
		FilePath:    cfg.DataFile,
		SQLitePath:  cfg.SQLitePath,
		PostgresDSN: cfg.PostgresDSN,
		Logger:      log.New(os.Stdout, "[STORE] ", log.LstdFlags),
	})
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewServer(db, nil).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      api.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	log.Printf("Score service listening on http://localhost%s", srv.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
