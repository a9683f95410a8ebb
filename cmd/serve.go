package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rpgo/fire-engine/internal/api"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection and simulation API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	series, err := loadSeries(ctx)
	if err != nil {
		return err
	}
	svc, closeFn := newService(ctx, series)
	defer closeFn()

	addr := settings.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(svc, api.Options{AllowOrigins: settings.Server.AllowOrigins, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Int("first_year", series.FirstYear()).Int("last_year", series.LastYear()).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
