package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sightline-hq/beacon/pkg/cli"
	"sightline-hq/beacon/pkg/journal"
)

var journalFlags struct {
	limit  int
	probes bool
	format string
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent chain walks and probes",
	Long: `Read the attempt journal and show recent activity, newest first.

Requires journal.path to be set in the settings file. Chain walks are
shown by default; --probes switches to health probe history.

Examples:
  beacon journal
  beacon journal --limit 50
  beacon journal --probes
  beacon journal --format json`,
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().IntVarP(&journalFlags.limit, "limit", "n", 20, "records to show")
	journalCmd.Flags().BoolVar(&journalFlags.probes, "probes", false, "show probe history instead of chain walks")
	journalCmd.Flags().StringVar(&journalFlags.format, "format", "text", "output format: text, json")
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cfg.Journal.Path == "" {
		return cli.NewConfigError("journal.path", "journaling is not enabled")
	}

	store, err := journal.Open(cfg.Journal.Path, cfg.Journal.Keep)
	if err != nil {
		return cli.NewConfigError("journal.path", err.Error())
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()
	if journalFlags.probes {
		return showProbes(ctx, store)
	}
	return showOutcomes(ctx, store)
}

func showOutcomes(ctx context.Context, store *journal.Store) error {
	records, err := store.RecentOutcomes(ctx, journalFlags.limit)
	if err != nil {
		return cli.NewCommandError("journal", err)
	}

	if journalFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, records)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tRESULT\tPROVIDER\tATTEMPTED")
	for _, rec := range records {
		result := "ok"
		if !rec.Succeeded {
			result = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			rec.RecordedAt.Format(time.RFC3339), result, rec.Provider, strings.Join(rec.Attempted, " -> "))
	}
	return w.Flush()
}

func showProbes(ctx context.Context, store *journal.Store) error {
	records, err := store.RecentProbes(ctx, journalFlags.limit)
	if err != nil {
		return cli.NewCommandError("journal", err)
	}

	if journalFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, records)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPROVIDER\tSTATUS\tLATENCY\tDETAIL")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.RecordedAt.Format(time.RFC3339), rec.Provider, rec.Status,
			rec.Latency.Round(time.Millisecond), rec.Error)
	}
	return w.Flush()
}
