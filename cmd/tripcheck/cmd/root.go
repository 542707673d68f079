package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dbURL      string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "tripcheck",
	Short: "TripCheck itinerary validation service",
	Long:  `TripCheck validates multi-segment travel itineraries against a composable rule catalog and time-of-day conventions.`,
}

func init() {
	cobra.OnInitialize(loadDotEnv)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, text)")
}

// loadDotEnv loads a local .env file when present. Real environments set
// variables directly; absence is not an error.
func loadDotEnv() {
	_ = godotenv.Load()
}

func Execute() error {
	return rootCmd.Execute()
}
