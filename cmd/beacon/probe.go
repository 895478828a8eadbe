package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sightline-hq/beacon/pkg/cli"
	"sightline-hq/beacon/pkg/health"
	"sightline-hq/beacon/pkg/providers"
	"sightline-hq/beacon/pkg/providers/client"
)

var probeFlags struct {
	format string
}

var probeCmd = &cobra.Command{
	Use:   "probe [provider...]",
	Short: "Probe provider health",
	Long: `Probe the configured providers and report their health.

Without arguments every configured provider is probed concurrently. Naming
providers restricts the probe to those.

Statuses:
  healthy    the provider answered a minimal completion promptly
  degraded   it answered slowly, or is rate limiting
  unhealthy  the call failed
  unknown    no API key is configured, so nothing was sent

Examples:
  beacon probe
  beacon probe anthropic ollama
  beacon probe --format json`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringVar(&probeFlags.format, "format", "text", "output format: text, json")
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	instances := cfg.BuildInstances()
	if len(args) > 0 {
		instances = filterInstances(instances, args)
		if len(instances) == 0 {
			return cli.NewCommandError("probe", fmt.Errorf("no configured provider matches %v", args))
		}
	}
	if len(instances) == 0 {
		return cli.NewConfigError("providers", "no providers configured")
	}

	prober := health.NewProber(client.New(client.Options{}))
	ctx := cli.SetupSignalHandler()
	results := prober.ProbeAll(ctx, instances)

	if probeFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, results)
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tSTATUS\tLATENCY\tDETAIL")
	for _, id := range ids {
		report := results[id]
		latency := "-"
		if report.Latency > 0 {
			latency = report.Latency.Round(time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, report.Status, latency, report.Error)
	}
	return w.Flush()
}

// filterInstances keeps only the named instances, preserving order.
func filterInstances(instances []providers.Instance, names []string) []providers.Instance {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	out := make([]providers.Instance, 0, len(instances))
	for _, inst := range instances {
		if wanted[inst.ID()] {
			out = append(out, inst)
		}
	}
	return out
}
