// Command mailbox-server exposes a mailbox store over the REST surface
// internal/server implements: JSON in and out, optional bearer-token auth,
// CORS enabled for every origin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/canac/mailbox/internal/backend"
	"github.com/canac/mailbox/internal/config"
	"github.com/canac/mailbox/internal/server"
	"github.com/canac/mailbox/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default: platform config dir)")
	addr := flag.String("addr", ":8080", "address to listen on")
	token := flag.String("token", "", "bearer token required on every request (default: no auth)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, *addr, *token, logger); err != nil {
		logger.Error("mailbox-server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath, addr, token string, logger *slog.Logger) error {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Database.Provider != config.ProviderSQLite {
		return fmt.Errorf("mailbox-server requires database.provider = %q, got %q", config.ProviderSQLite, cfg.Database.Provider)
	}

	be, closer, err := backend.Open(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	srv := server.New(store.New(be), server.WithToken(token), server.WithLogger(logger))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	logger.Info("mailbox-server listening", "addr", listener.Addr().String(), "auth", token != "")

	httpServer := &http.Server{Handler: srv}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(listener) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("mailbox-server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
