package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sightline-hq/beacon/pkg/cli"
	"sightline-hq/beacon/pkg/fallback"
	"sightline-hq/beacon/pkg/journal"
	"sightline-hq/beacon/pkg/providers"
	"sightline-hq/beacon/pkg/providers/client"
)

var chatFlags struct {
	primary     string
	system      string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	format      string
}

var chatCmd = &cobra.Command{
	Use:   "chat [prompt...]",
	Short: "Send a prompt through the fallback chain",
	Long: `Send a chat-completion request through the configured provider chain.

The chain is walked in configuration order, starting with the primary
provider when one is set. Each failing provider is classified and the next
one is tried; the command fails only when every provider has failed.

Examples:
  # Ask the configured chain
  beacon chat "explain raft in two sentences"

  # Force a specific provider to go first
  beacon chat --primary ollama "what is 2+2"

  # Include a system prompt and cap the output
  beacon chat --system "answer in French" --max-tokens 100 "hello"

  # Full outcome, including the attempt history, as JSON
  beacon chat --format json "hello"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVar(&chatFlags.primary, "primary", "", "provider to try first (overrides settings)")
	chatCmd.Flags().StringVar(&chatFlags.system, "system", "", "system prompt")
	chatCmd.Flags().IntVar(&chatFlags.maxTokens, "max-tokens", 0, "output token cap")
	chatCmd.Flags().Float64Var(&chatFlags.temperature, "temperature", 0, "sampling temperature")
	chatCmd.Flags().DurationVar(&chatFlags.timeout, "timeout", 0, "per-provider timeout")
	chatCmd.Flags().StringVar(&chatFlags.format, "format", "text", "output format: text, json")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	primary := cfg.Primary
	if chatFlags.primary != "" {
		primary = chatFlags.primary
	}

	opts := []fallback.Option{}
	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal.Path, cfg.Journal.Keep)
		if err != nil {
			return cli.NewConfigError("journal.path", err.Error())
		}
		defer store.Close()
		opts = append(opts, fallback.WithRecorder(store))
	}

	orch := fallback.NewOrchestrator(client.New(client.Options{}), opts...)

	var msgs []providers.Message
	if chatFlags.system != "" {
		msgs = append(msgs, providers.Message{Role: providers.RoleSystem, Content: chatFlags.system})
	}
	msgs = append(msgs, providers.Message{Role: providers.RoleUser, Content: strings.Join(args, " ")})

	ctx := cli.SetupSignalHandler()
	outcome := orch.Execute(ctx, cfg.BuildInstances(), primary, msgs, providers.ChatOptions{
		MaxTokens:   chatFlags.maxTokens,
		Temperature: chatFlags.temperature,
		Timeout:     chatFlags.timeout,
	})

	if chatFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, outcome)
	}

	if !outcome.Succeeded() {
		return cli.NewCommandError("chat", fmt.Errorf("%s (%s)", outcome.Err.Message, outcome.Summary()))
	}

	fmt.Println(outcome.Response.Text())
	if verbose || len(outcome.Attempted) > 1 {
		fmt.Fprintf(os.Stderr, "\n[%s]\n", outcome.Summary())
	}
	return nil
}
