package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskping/taskping/internal/bot"
	"github.com/taskping/taskping/internal/flow"
	"github.com/taskping/taskping/internal/schedule"
	"github.com/taskping/taskping/internal/server"
	"github.com/taskping/taskping/internal/storage"
	"github.com/taskping/taskping/internal/transport"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the webhook and reminder HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			var repo storage.Repository
			if cfg.DBPath != "" {
				sqlite, err := storage.OpenSQLite(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				defer func() { _ = sqlite.Close() }()
				repo = sqlite
			} else {
				logger.Warn("no db_path configured, using in-memory store")
				repo = storage.NewMemoryRepository()
			}

			handler := &bot.Handler{
				Repo:          repo,
				Transport:     transport.NewClient(cfg.APIBaseURL, cfg.ChannelToken),
				Machine:       &flow.Machine{},
				Clock:         schedule.SystemClock{},
				Logger:        logger,
				AllowedUserID: cfg.AllowedUserID,
				RemindSecret:  cfg.RemindSecret,
			}
			srv := server.New(cfg.ListenAddr, handler, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
}
