package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sightline-hq/beacon/pkg/cli"
	"sightline-hq/beacon/pkg/health"
	"sightline-hq/beacon/pkg/providers/client"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate [provider...]",
	Short: "Validate provider credentials",
	Long: `Verify that the configured API keys are accepted by their backends.

Each named provider (or every configured one, with no arguments) gets a
minimal completion call. An auth rejection marks the key invalid; a rate
limit marks it valid but unconfirmed, since the completion never ran.

Examples:
  beacon validate
  beacon validate anthropic
  beacon validate --format json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	instances := cfg.BuildInstances()
	if len(args) > 0 {
		instances = filterInstances(instances, args)
		if len(instances) == 0 {
			return cli.NewCommandError("validate", fmt.Errorf("no configured provider matches %v", args))
		}
	}
	if len(instances) == 0 {
		return cli.NewConfigError("providers", "no providers configured")
	}

	prober := health.NewProber(client.New(client.Options{}))
	ctx := cli.SetupSignalHandler()

	statuses := make([]health.CredentialStatus, 0, len(instances))
	for _, inst := range instances {
		statuses = append(statuses, prober.ValidateCredential(ctx, inst))
	}

	if validateFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, statuses)
	}

	failed := false
	for _, status := range statuses {
		switch {
		case status.Valid && status.Confirmed:
			fmt.Printf("✓ %s: credential valid\n", status.Provider)
		case status.Valid:
			fmt.Printf("? %s: credential accepted but unconfirmed (%s)\n", status.Provider, status.Message)
		default:
			failed = true
			fmt.Printf("✗ %s: %s\n", status.Provider, status.Message)
		}
	}
	if failed {
		return cli.NewCommandError("validate", fmt.Errorf("one or more credentials failed validation"))
	}
	return nil
}
