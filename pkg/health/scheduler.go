package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sightline-hq/beacon/pkg/providers"
)

// ProbeRecorder receives every sweep's probe results for persistence.
// The journal store implements it.
type ProbeRecorder interface {
	RecordProbe(ctx context.Context, report providers.ProviderHealth)
}

// Scheduler runs periodic health sweeps on a cron schedule and caches the
// latest results, so display surfaces read status without triggering probes.
//
// Common schedules:
//   - "@every 2m"  - every two minutes
//   - "*/5 * * * *" - on five-minute boundaries
type Scheduler struct {
	prober    *Prober
	instances func() []providers.Instance
	cron      *cron.Cron
	log       *slog.Logger
	recorder  ProbeRecorder

	mu      sync.RWMutex
	latest  map[string]providers.ProviderHealth
	swept   time.Time
	running bool
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithProbeRecorder persists each sweep's results through the recorder.
func WithProbeRecorder(r ProbeRecorder) SchedulerOption {
	return func(s *Scheduler) { s.recorder = r }
}

// NewScheduler creates a sweep scheduler. The instances function is called
// at the start of every sweep so configuration changes between sweeps are
// picked up; it must return an immutable snapshot.
func NewScheduler(prober *Prober, instances func() []providers.Instance, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		prober:    prober,
		instances: instances,
		cron:      cron.New(),
		log:       slog.Default().With("component", "health.scheduler"),
		latest:    make(map[string]providers.ProviderHealth),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins sweeping on the given cron schedule and runs one sweep
// immediately so Snapshot is never empty while a backend is configured.
// Stops when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("health scheduler already running")
	}
	s.running = true
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep(ctx) }); err != nil {
		s.Stop()
		return fmt.Errorf("scheduling health sweep: %w", err)
	}

	s.cron.Start()
	s.log.Info("health sweeps started", "schedule", schedule)

	go s.Sweep(ctx)
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts future sweeps. In-flight probes finish on their own deadlines.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.log.Info("health sweeps stopped")
}

// Sweep probes every configured instance once and replaces the cached
// snapshot.
func (s *Scheduler) Sweep(ctx context.Context) {
	instances := s.instances()
	if len(instances) == 0 {
		return
	}

	start := time.Now()
	results := s.prober.ProbeAll(ctx, instances)

	if s.recorder != nil {
		for _, report := range results {
			s.recorder.RecordProbe(ctx, report)
		}
	}

	s.mu.Lock()
	s.latest = results
	s.swept = time.Now()
	s.mu.Unlock()

	s.log.Info("health sweep finished",
		"providers", len(results),
		"took", time.Since(start),
	)
}

// Snapshot returns a copy of the latest sweep's results and when the sweep
// ran. The zero time means no sweep has completed yet.
func (s *Scheduler) Snapshot() (map[string]providers.ProviderHealth, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]providers.ProviderHealth, len(s.latest))
	for id, report := range s.latest {
		out[id] = report
	}
	return out, s.swept
}
