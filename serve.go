package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dashboard/config/database"
	"dashboard/internal/notify"
	"dashboard/pkg/logger"
	"dashboard/pkg/tracing"
	"dashboard/router"
	"dashboard/socket"
	"dashboard/store"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := tracing.Init(ctx, cfg.OTelEndpoint, "dashboard")
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Sugar.Warnf("Failed to flush traces: %v", err)
			}
		}()

		db, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer db.Close()

		version, err := store.Migrate(ctx, db)
		if err != nil {
			return err
		}
		logger.Sugar.Infof("Schema at version %d", version)

		if !cfg.AuthEnabled() {
			logger.Sugar.Warn("JWT_SECRET is empty: every request is anonymous and secret notes are unreachable")
		}

		hub := socket.NewHub()
		go hub.Run(ctx)

		var notifier notify.Publisher
		if len(cfg.Kafka.Brokers) > 0 {
			kp := notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
			defer kp.Close()
			notifier = kp
			logger.Sugar.Infof("Publishing changes to Kafka topic %s", cfg.Kafka.Topic)
		}

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router.Setup(cfg, db, hub, notifier),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Sugar.Infof("Dashboard listening on %s", cfg.HTTPAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Sugar.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cmd.Context(), cfg.Postgres)
		if err != nil {
			return err
		}
		defer db.Close()

		version, err := store.Migrate(cmd.Context(), db)
		if err != nil {
			return err
		}
		printf(cmd, "Schema at version %d\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
