package main

import (
	"fmt"
	"os"

	"dashboard/config"
	"dashboard/pkg/client"
	"dashboard/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	serverURL string
	apiToken  string
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Personal dashboard for notes, goals and events",
	Long: `Dashboard serves a small JSON API over PostgreSQL for notes, goals and
events, with a month calendar, a day agenda, an RSS proxy and live change
notifications. The client commands drive a running server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Init(cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("DASHBOARD_URL", "http://localhost:8080"), "Dashboard API base URL for client commands")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("DASHBOARD_TOKEN"), "Session token for client commands")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() *client.Client {
	return client.New(serverURL, client.WithToken(apiToken))
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
