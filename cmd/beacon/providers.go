package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sightline-hq/beacon/pkg/catalog"
	"sightline-hq/beacon/pkg/cli"
)

var providersFlags struct {
	format string
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List known providers",
	Long: `List every provider in the catalog with its dialect, tier, and
default model. Providers are configured by identifier in the settings file;
this command shows the identifiers that are available.

Examples:
  beacon providers
  beacon providers --format json`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().StringVar(&providersFlags.format, "format", "text", "output format: text, json")
}

func runProviders(cmd *cobra.Command, args []string) error {
	defs := catalog.All()

	if providersFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, defs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDIALECT\tTIER\tDEFAULT MODEL\tKEY\tVISION")
	for _, def := range defs {
		key := "required"
		if !def.RequiresKey {
			key = "-"
		}
		vision := "-"
		if def.SupportsVision {
			vision = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			def.ID, def.DisplayName, def.Family, def.Tier, def.DefaultModel, key, vision)
	}
	return w.Flush()
}
