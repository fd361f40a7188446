package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pkamble/lessonchat/internal/logger"
	"github.com/pkamble/lessonchat/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lessonchat",
	Short: "AI-assisted lesson Q&A platform",
	Long:  "LessonChat — lesson library with an AI tutor that answers student questions grounded in lesson content.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(loadEnv)

	rootCmd.PersistentFlags().String("db", "", "SQLite database file or Postgres DSN (overrides LESSONCHAT_DB_DSN)")
	rootCmd.PersistentFlags().String("log", "dev", "Log mode: dev or prod")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnv reads a local .env if present. Real environment variables win.
func loadEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

func newLogger(cmd *cobra.Command) (*logger.Logger, error) {
	mode, _ := cmd.Flags().GetString("log")
	return logger.New(mode)
}

// openStore builds the store config from env, applies the --db flag and
// opens the database.
func openStore(cmd *cobra.Command, log *logger.Logger) (*store.Store, error) {
	cfg := store.ConfigFromEnv()
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		cfg.DSN = dsn
	}
	s, err := store.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
