package main

import (
	"context"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/farm-advisor/internal/api/http"
	"github.com/i474232898/farm-advisor/internal/logging"
	"github.com/i474232898/farm-advisor/internal/scheduler"
	"github.com/i474232898/farm-advisor/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the weather tracking scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	cfg := a.cfg

	mem := store.NewMemoryStore(cfg.Tracking.MaxHistory, cfg.Tracking.MaxAge)
	advisor, err := a.advisor(mem)
	if err != nil {
		return err
	}
	engine := a.engine()

	locs, err := cfg.Tracking.Locations()
	if err != nil {
		return err
	}
	sched := scheduler.New(locs, cfg.Tracking.Interval, advisor)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	srv := httpapi.NewApp(engine, advisor, cfg.Weather.DefaultLocation())

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", addr).
			Str("provider", cfg.Weather.Provider).
			Bool("model_available", engine.ModelAvailable()).
			Msg("http server starting")
		errCh <- srv.Listen(addr)
	}()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("error during shutdown")
		return err
	}
	return nil
}
