package health

import (
	"context"
	"testing"
	"time"

	"sightline-hq/beacon/internal/providertest"
	"sightline-hq/beacon/pkg/providers"
)

func TestScheduler_SweepAndSnapshot(t *testing.T) {
	server := providertest.NewServer()
	defer server.Close()
	server.Respond("/chat/completions", providertest.Response{
		Body: providertest.ChatBody("c1", "pong"),
	})

	instances := []providers.Instance{providertest.StandardInstance("a", server.URL())}
	sched := NewScheduler(newTestProber(), func() []providers.Instance { return instances })

	snapshot, swept := sched.Snapshot()
	if len(snapshot) != 0 || !swept.IsZero() {
		t.Fatalf("fresh scheduler should have an empty snapshot, got %v at %v", snapshot, swept)
	}

	sched.Sweep(context.Background())

	snapshot, swept = sched.Snapshot()
	if swept.IsZero() {
		t.Fatal("sweep time not recorded")
	}
	report, ok := snapshot["a"]
	if !ok || report.Status != providers.StatusHealthy {
		t.Errorf("snapshot = %v", snapshot)
	}
}

func TestScheduler_SnapshotIsCopy(t *testing.T) {
	server := providertest.NewServer()
	defer server.Close()
	server.Respond("/chat/completions", providertest.Response{
		Body: providertest.ChatBody("c1", "pong"),
	})

	instances := []providers.Instance{providertest.StandardInstance("a", server.URL())}
	sched := NewScheduler(newTestProber(), func() []providers.Instance { return instances })
	sched.Sweep(context.Background())

	snapshot, _ := sched.Snapshot()
	delete(snapshot, "a")

	again, _ := sched.Snapshot()
	if _, ok := again["a"]; !ok {
		t.Error("mutating a snapshot changed the scheduler's cache")
	}
}

func TestScheduler_StartValidatesSchedule(t *testing.T) {
	sched := NewScheduler(newTestProber(), func() []providers.Instance { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx, "not a schedule"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}

	// A rejected schedule must not poison the scheduler.
	if err := sched.Start(ctx, "@every 1h"); err != nil {
		t.Fatalf("Start after invalid schedule: %v", err)
	}
	sched.Stop()
}

func TestScheduler_RejectsDoubleStart(t *testing.T) {
	sched := NewScheduler(newTestProber(), func() []providers.Instance { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx, "@every 1h"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop()

	if err := sched.Start(ctx, "@every 1h"); err == nil {
		t.Fatal("second Start should fail while running")
	}
}

type captureProbeRecorder struct {
	reports []providers.ProviderHealth
}

func (r *captureProbeRecorder) RecordProbe(_ context.Context, report providers.ProviderHealth) {
	r.reports = append(r.reports, report)
}

func TestScheduler_RecordsProbes(t *testing.T) {
	server := providertest.NewServer()
	defer server.Close()
	server.Respond("/chat/completions", providertest.Response{
		Body: providertest.ChatBody("c1", "pong"),
	})

	rec := &captureProbeRecorder{}
	instances := []providers.Instance{providertest.StandardInstance("a", server.URL())}
	sched := NewScheduler(newTestProber(), func() []providers.Instance { return instances },
		WithProbeRecorder(rec))

	sched.Sweep(context.Background())

	if len(rec.reports) != 1 || rec.reports[0].Provider != "a" {
		t.Errorf("recorder got %+v", rec.reports)
	}
}

func TestScheduler_StartRunsImmediateSweep(t *testing.T) {
	server := providertest.NewServer()
	defer server.Close()
	server.Respond("/chat/completions", providertest.Response{
		Body: providertest.ChatBody("c1", "pong"),
	})

	instances := []providers.Instance{providertest.StandardInstance("a", server.URL())}
	sched := NewScheduler(newTestProber(), func() []providers.Instance { return instances })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx, "@every 1h"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sched.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snapshot, _ := sched.Snapshot(); len(snapshot) > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("immediate sweep never populated the snapshot")
}
