// cmd/racket-advisor/serve.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"racket-advisor/internal/pipeline/render"
	"racket-advisor/internal/server"
)

func serveCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", a.cfg.Server.Address, "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	serverCfg := a.cfg.Server
	if serverCfg.IdleTimeout <= 0 {
		serverCfg.IdleTimeout = a.cfg.Cache.TTL
	}
	srv := server.New(a.newSession, serverCfg, render.ParseLocale(a.cfg.Session.Locale), a.log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(*addr)
	}()

	a.zapLog.Info("API server started",
		zap.String("address", *addr),
		zap.String("backend", a.cfg.Backend.BaseURL),
		zap.String("single_flight", a.cfg.Session.SingleFlight),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	case <-ctx.Done():
	}

	a.zapLog.Info("Shutting down API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.zapLog.Error("API server shutdown failed", zap.Error(err))
		return err
	}
	a.zapLog.Info("API server stopped")
	return nil
}
