package main

import (
	"fmt"
	"os"
	"time"

	"lckr_backend/internal/geocoding"
	"lckr_backend/platform/config"
	"lckr_backend/platform/logger"

	"github.com/spf13/cobra"
)

var rootFlags struct {
	timeout time.Duration
	json    bool
}

var rootCmd = &cobra.Command{
	Use:   "location-lookup",
	Short: "Query the configured geocoding provider",
	Long:  "location-lookup runs place predictions and resolutions against the\ngeocoding provider configured through the server's environment.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.DurationVar(&rootFlags.timeout, "timeout", 15*time.Second, "Overall timeout for the lookup")
	f.BoolVar(&rootFlags.json, "json", false, "Print results as JSON")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(resolveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newProvider builds the cached, rate limited provider the API server uses.
// Logs go to stderr so stdout stays parseable.
func newProvider() (geocoding.Provider, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.NewWithWriter(cfg.Env, os.Stderr)

	upstream, err := geocoding.NewProviderFromConfig(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return geocoding.NewService(upstream, geocoding.NewMemoryCache(), cfg.GetGeocoderCacheTTL(), log), log, nil
}
