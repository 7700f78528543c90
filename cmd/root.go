// Package cmd holds the command line entry points of the notification service.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "notify-backend/cmd/api"
	"notify-backend/internal/app"
	"notify-backend/pkg/config"
	"notify-backend/pkg/database"
	"notify-backend/pkg/zlog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// RootCommand creates the root command; running it without a subcommand serves HTTP
func RootCommand(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "notify",
		Short:         "Push broadcast and inbox messaging service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zlog.Init(zlog.Options{Env: cfg.Env, Level: cfg.LogLevel, LogPath: cfg.LogPath})
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	serveCmd := serveCommand(cfg)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(
		serveCmd,
		broadcastCommand(cfg),
		migrateCommand(cfg),
		tokenCommand(cfg),
	)
	return rootCmd
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the broadcast scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			// cycles outlive the signal so Close can wait for them
			a.StartScheduler(context.WithoutCancel(ctx))

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           api.NewHandler(a).Engine(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				zlog.Info("Server starting", zap.String("port", cfg.Port))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("failed to start server: %w", err)
				}
			case <-ctx.Done():
				zlog.Info("Shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zlog.Warn("Server shutdown incomplete", zap.Error(err))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	cmd.Flags().BoolVar(&cfg.BroadcastEnabled, "broadcast", cfg.BroadcastEnabled, "Run periodic broadcasts")
	return cmd
}

func broadcastCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast",
		Short: "Run one broadcast cycle and print its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			report, runErr := a.Scheduler.RunOnce(cmd.Context())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			return runErr
		},
	}
}

func migrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewPostgresConnection(cfg)
			if err != nil {
				return err
			}
			if err := app.Migrate(db); err != nil {
				return err
			}
			zlog.Info("Migration completed")
			return nil
		},
	}
}

func tokenCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an access token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			token, err := a.Auth.IssueAccessToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

// openApp connects to the store, migrates and wires the application
func openApp(ctx context.Context, cfg *config.Config) (*app.App, error) {
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := app.Migrate(db); err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, db, app.Options{})
}
