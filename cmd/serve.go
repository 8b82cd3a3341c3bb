package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Piladin/ZTPAI/internal/app"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to start")
		return err
	}
	a.Dispatcher.Start(context.Background())

	e := a.Router()
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err = <-serverErr:
		log.Error().Err(err).Msg("server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if serr := e.Shutdown(shutdownCtx); serr != nil {
		log.Error().Err(serr).Msg("http shutdown")
	}
	if serr := a.Dispatcher.Stop(shutdownCtx); serr != nil {
		log.Warn().Err(serr).Msg("notification queue not drained")
	}
	if serr := a.Close(shutdownCtx); serr != nil {
		log.Error().Err(serr).Msg("closing backends")
	}
	return err
}
