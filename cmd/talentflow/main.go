// Package main provides the entry point for the talentflow hiring board CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talentflow",
	Short: "Hiring board for jobs, candidates and assessments",
	Long: "talentflow manages a hiring board: job postings in a ranked list, candidates moving through " +
		"pipeline stages, and per-job assessments. It runs against PostgreSQL when a database URL is " +
		"configured and against a local JSON file otherwise, with simulated server latency and write failures.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
}

var (
	configPath  string
	databaseURL string
	dataFile    string
	noLatency   bool
	failureRate float64
	retries     int
	verbose     bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to JSON config file")
	flags.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (overrides DATABASE_URL)")
	flags.StringVar(&dataFile, "data-file", "", "Local store file used when no database URL is set (default talentflow.db)")
	flags.BoolVar(&noLatency, "no-latency", false, "Disable the simulated server delay")
	flags.Float64Var(&failureRate, "failure-rate", 0, "Probability that a write fails (default 0.08)")
	flags.IntVar(&retries, "retries", 0, "Retry transient write failures this many times")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every board call")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeApp()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
