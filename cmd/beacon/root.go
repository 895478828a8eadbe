package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sightline-hq/beacon/pkg/cli"
	"sightline-hq/beacon/pkg/settings"
	"sightline-hq/beacon/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "beacon",
	Short: "Beacon - multi-provider chat completion with automatic fallback",
	Long: `Beacon sends chat-completion requests through an ordered chain of
LLM providers, falling back to the next one when a backend fails.

It speaks both major wire dialects, so hosted vendors (OpenAI, Anthropic,
Mistral, Groq, OpenRouter) and local servers (Ollama, LM Studio) sit in
the same chain:
  - Automatic fallback with a closed error taxonomy
  - Health probing and credential validation
  - Scheduled sweeps exposing Prometheus metrics
  - SQLite journal of every chain walk

For more information, visit: https://github.com/sightline-hq/beacon`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "beacon.yaml", "settings file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadSettings loads the settings file with environment credential overrides
// and installs the configured logger.
func loadSettings() (*settings.Config, error) {
	cfg, err := settings.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load settings: %v", err))
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if _, err := logging.Setup(logging.Config{Level: level, Format: cfg.Logging.Format}); err != nil {
		return nil, cli.NewConfigError("logging", err.Error())
	}
	return cfg, nil
}
