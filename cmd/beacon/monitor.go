package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"sightline-hq/beacon/pkg/cli"
	"sightline-hq/beacon/pkg/fallback"
	"sightline-hq/beacon/pkg/health"
	"sightline-hq/beacon/pkg/journal"
	"sightline-hq/beacon/pkg/providers"
	"sightline-hq/beacon/pkg/providers/client"
	"sightline-hq/beacon/pkg/settings"
	"sightline-hq/beacon/pkg/telemetry/metrics"
)

var monitorFlags struct {
	listen   string
	schedule string
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run scheduled health sweeps with an HTTP status endpoint",
	Long: `Continuously probe the configured providers on a cron schedule and
serve the results over HTTP.

Endpoints:
  /health   latest sweep results as JSON
  /chat     POST a {"messages": [...]} body through the fallback chain
  /metrics  Prometheus exposition

The settings file is watched; edits take effect on the next sweep without
a restart. The command runs until interrupted.

Examples:
  # Sweep every two minutes, listen on :9090
  beacon monitor

  # Custom schedule and address
  beacon monitor --schedule "@every 30s" --listen 127.0.0.1:8600`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().StringVarP(&monitorFlags.listen, "listen", "l", ":9090", "listen address")
	monitorCmd.Flags().StringVar(&monitorFlags.schedule, "schedule", "", "sweep cron schedule (overrides settings)")
}

// configHolder hands the current instance snapshot to the scheduler and the
// chat endpoint while the watcher swaps it underneath.
type configHolder struct {
	mu        sync.RWMutex
	instances []providers.Instance
	primary   string
}

func (h *configHolder) set(cfg *settings.Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.instances = cfg.BuildInstances()
	h.primary = cfg.Primary
}

func (h *configHolder) snapshot() ([]providers.Instance, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.instances, h.primary
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	schedule := monitorFlags.schedule
	if schedule == "" {
		schedule = cfg.Health.Schedule
	}
	if schedule == "" {
		schedule = "@every 2m"
	}

	holder := &configHolder{}
	holder.set(cfg)

	pm := metrics.NewProviderMetrics(metrics.Config{}, nil)
	httpClient := client.New(client.Options{})
	prober := health.NewProber(httpClient, health.WithMetrics(pm))

	schedOpts := []health.SchedulerOption{}
	orchOpts := []fallback.Option{fallback.WithMetrics(pm)}
	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal.Path, cfg.Journal.Keep)
		if err != nil {
			return cli.NewConfigError("journal.path", err.Error())
		}
		defer store.Close()
		schedOpts = append(schedOpts, health.WithProbeRecorder(store))
		orchOpts = append(orchOpts, fallback.WithRecorder(store))
	}

	sched := health.NewScheduler(prober, func() []providers.Instance {
		instances, _ := holder.snapshot()
		return instances
	}, schedOpts...)
	orch := fallback.NewOrchestrator(httpClient, orchOpts...)

	ctx := cli.SetupSignalHandler()
	if err := sched.Start(ctx, schedule); err != nil {
		return cli.NewCommandError("monitor", err)
	}

	watcher := settings.NewWatcher(cfgFile, slog.Default())
	go func() {
		err := watcher.Watch(ctx, func() error {
			reloaded, err := settings.LoadWithEnvOverrides(cfgFile)
			if err != nil {
				return err
			}
			holder.set(reloaded)
			slog.Info("settings reloaded", "providers", len(reloaded.Providers))
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("settings watcher stopped", "error", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", pm.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		snapshot, swept := sched.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"swept_at":  swept,
			"providers": snapshot,
		})
	})
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Messages  []providers.Message `json:"messages"`
			MaxTokens int                 `json:"max_tokens,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, fmt.Sprintf("decoding request: %v", err), http.StatusBadRequest)
			return
		}
		if len(body.Messages) == 0 {
			http.Error(w, "messages cannot be empty", http.StatusBadRequest)
			return
		}

		instances, primary := holder.snapshot()
		outcome := orch.Execute(r.Context(), instances, primary, body.Messages,
			providers.ChatOptions{MaxTokens: body.MaxTokens})

		w.Header().Set("Content-Type", "application/json")
		if !outcome.Succeeded() {
			w.WriteHeader(http.StatusBadGateway)
		}
		_ = json.NewEncoder(w).Encode(outcome)
	})

	server := &http.Server{
		Addr:              monitorFlags.listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("monitor listening", "address", monitorFlags.listen, "schedule", schedule)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return cli.NewCommandError("monitor", err)
	}
	return nil
}
