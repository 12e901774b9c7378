package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"floorforge/internal/config"
	"floorforge/internal/server"
	"floorforge/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
const shutdownTimeout = 10 * time.Second

// newServeCmd creates the serve command.
// It runs the layout HTTP API with the cache and store backends from the
// config file. The server shuts down gracefully when the context is
// cancelled.
func newServeCmd(configPath *string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			sceneCache, err := openCache(ctx, *configPath, false, logger)
			if err != nil {
				return err
			}
			defer sceneCache.Close()

			st, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			runner := pipeline.NewRunner(sceneCache, nil, logger)
			srv := &http.Server{
				Addr:    cfg.Listen,
				Handler: server.New(st, runner, logger).Router(),
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving layout API", "addr", cfg.Listen)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}
