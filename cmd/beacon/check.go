package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sightline-hq/beacon/pkg/settings"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the settings file",
	Long: `Parse and validate the settings file without contacting any backend.

Every problem is reported, not just the first one. Use this after editing
the file, or in CI, to catch unknown provider identifiers, duplicate
entries, unsupported models, and bad logging options.

Examples:
  beacon check
  beacon check --config /etc/beacon/beacon.yaml`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := settings.Load(cfgFile)
	if err != nil {
		var verr settings.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ %s has %d problem(s):\n", cfgFile, len(verr.Errors))
			for _, fieldErr := range verr.Errors {
				fmt.Printf("  - %s\n", fieldErr.Error())
			}
			return fmt.Errorf("settings validation failed")
		}
		return err
	}

	enabled := 0
	for _, inst := range cfg.BuildInstances() {
		if inst.Enabled {
			enabled++
		}
	}
	fmt.Printf("✓ %s is valid (%d providers, %d enabled)\n", cfgFile, len(cfg.Providers), enabled)
	if cfg.Primary != "" {
		fmt.Printf("  primary: %s\n", cfg.Primary)
	}
	return nil
}
