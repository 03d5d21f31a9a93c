package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"StockLens/internal/api"
	"StockLens/internal/scheduler"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the HTTP dashboard and API" }
func (*serveCmd) Usage() string {
	return `stocklens serve [-addr :8080]

  Serves the comparison dashboard, the JSON/xlsx/png API and /metrics.
  Set PREWARM_ON_START=true to load the company directory before the first request.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address (overrides server.addr)")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer a.close()
	log := a.logger

	addr := a.cfg.Server.Addr
	if c.addr != "" {
		addr = c.addr
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, a.resolver, log.Named("scheduler"))
	if err := sched.RegisterAll(a.cfg.Directory.RefreshCron); err != nil {
		log.Error("register cron tasks", zap.Error(err))
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("PREWARM_ON_START") == "true" {
		log.Info("PREWARM_ON_START enabled, loading directory now")
		go sched.RunDirectoryNow()
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewServer(a.service, a.resolver, a.metrics, log.Named("http")).Router(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("StockLens is running", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("http server failed", zap.Error(err))
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping...")
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown incomplete", zap.Error(err))
	}
	log.Info("StockLens stopped")
	return subcommands.ExitSuccess
}
