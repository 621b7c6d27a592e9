package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yatube/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "yatube",
	Short: "Yatube - a small blogging platform",
	Long: `Yatube serves posts, groups, comments and author subscriptions.

Configuration comes from the environment (or a .env file):
  HTTP_ADDR, DATABASE_URL, JWT_SECRET, CACHE_TTL, REDIS_ADDR, MEDIA_DIR,
  MONGODB_URI, NATS_URL, NEO4J_URI, NEO4J_USER, NEO4J_PASS, CORS_ORIGINS,
  OTEL_STDOUT`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if dbURL != "" {
			cfg.DatabaseURL = dbURL
		}
	},
}

var dbURL string

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection string (overrides DATABASE_URL)")
}
