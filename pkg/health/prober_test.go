package health

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"sightline-hq/beacon/internal/providertest"
	"sightline-hq/beacon/pkg/providers"
	"sightline-hq/beacon/pkg/providers/client"
)

func newTestProber(opts ...Option) *Prober {
	cli := client.New(client.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewProber(cli, opts...)
}

func TestProbe_Healthy(t *testing.T) {
	server := providertest.NewServer()
	defer server.Close()
	server.Respond("/chat/completions", providertest.Response{
		Body: providertest.ChatBody("c1", "pong"),
	})

	prober := newTestProber()
	report := prober.Probe(context.Background(), providertest.StandardInstance("a", server.URL()))

	if report.Status != providers.StatusHealthy {
		t.Errorf("status = %q, want healthy (%s)", report.Status, report.Error)
	}
	if report.Provider != "a" {
		t.Errorf("provider = %q", report.Provider)
	}
	if report.Latency <= 0 {
		t.Error("latency not recorded")
	}
}

func TestProbe_MissingCredentialSkipsNetwork(t *testing.T) {
	server := providertest.NewServer()
	defer server.Close()

	inst := providertest.StandardInstance("a", server.URL())
	inst.APIKey = ""

	prober := newTestProber()
	report := prober.Probe(context.Background(), inst)

	if report.Status != providers.StatusUnknown {
		t.Errorf("status = %q, want unknown", report.Status)
	}
	if report.Error != "no API key configured" {
		t.Errorf("error = %q", report.Error)
	}
	if server.RequestCount() != 0 {
		t.Errorf("probe made %d network calls without a credential", server.RequestCount())
	}
}

func TestProbe_LocalUnreachable(t *testing.T) {
	inst := providertest.LocalInstance("local", "http://127.0.0.1:1")

	prober := newTestProber()
	report := prober.Probe(context.Background(), inst)

	if report.Status != providers.StatusUnhealthy {
		t.Errorf("status = %q, want unhealthy", report.Status)
	}
	if report.Error != "endpoint unreachable" {
		t.Errorf("error = %q", report.Error)
	}
}

func TestProbe_LocalReachableNoKeyNeeded(t *testing.T) {
	server := providertest.NewServer()
	defer server.Close()
	server.Respond("/models", providertest.Response{Body: map[string]any{"data": []any{}}})
	server.Respond("/chat/completions", providertest.Response{
		Body: providertest.ChatBody("c1", "pong"),
	})

	prober := newTestProber()
	report := prober.Probe(context.Background(), providertest.LocalInstance("local", server.URL()))

	if report.Status != providers.StatusHealthy {
		t.Errorf("status = %q, want healthy (%s)", report.Status, report.Error)
	}
}

func TestProbe_SlowResponseDegraded(t *testing.T) {
	server := providertest.NewServer()
	defer server.Close()
	server.Respond("/chat/completions", providertest.Response{
		Body:  providertest.ChatBody("c1", "pong"),
		Delay: 50 * time.Millisecond,
	})

	prober := newTestProber(WithDegradedThreshold(10 * time.Millisecond))
	report := prober.Probe(context.Background(), providertest.StandardInstance("a", server.URL()))

	if report.Status != providers.StatusDegraded {
		t.Errorf("status = %q, want degraded", report.Status)
	}
	if report.Error != "responding slowly" {
		t.Errorf("error = %q", report.Error)
	}
}

func TestProbe_RateLimitedDegraded(t *testing.T) {
	server := providertest.NewServer()
	defer server.Close()
	server.Respond("/chat/completions", providertest.Response{StatusCode: 429, Body: "{}"})

	prober := newTestProber()
	report := prober.Probe(context.Background(), providertest.StandardInstance("a", server.URL()))

	if report.Status != providers.StatusDegraded {
		t.Errorf("status = %q, want degraded for rate limit", report.Status)
	}
}

func TestProbe_AuthFailureUnhealthy(t *testing.T) {
	server := providertest.NewServer()
	defer server.Close()
	server.Respond("/chat/completions", providertest.Response{
		StatusCode: 401,
		Body:       map[string]any{"error": map[string]any{"message": "bad key"}},
	})

	prober := newTestProber()
	report := prober.Probe(context.Background(), providertest.StandardInstance("a", server.URL()))

	if report.Status != providers.StatusUnhealthy {
		t.Errorf("status = %q, want unhealthy", report.Status)
	}
	if !strings.Contains(report.Error, "bad key") {
		t.Errorf("error = %q", report.Error)
	}
}

func TestProbeAll_Independent(t *testing.T) {
	healthy := providertest.NewServer()
	defer healthy.Close()
	healthy.Respond("/chat/completions", providertest.Response{
		Body: providertest.ChatBody("c1", "pong"),
	})

	prober := newTestProber()
	instances := []providers.Instance{
		providertest.StandardInstance("good", healthy.URL()),
		providertest.LocalInstance("dead", "http://127.0.0.1:1"),
	}

	results := prober.ProbeAll(context.Background(), instances)
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results["good"].Status != providers.StatusHealthy {
		t.Errorf("good = %q", results["good"].Status)
	}
	if results["dead"].Status != providers.StatusUnhealthy {
		t.Errorf("dead = %q", results["dead"].Status)
	}
}

func TestValidateCredential(t *testing.T) {
	t.Run("valid key confirmed", func(t *testing.T) {
		server := providertest.NewServer()
		defer server.Close()
		server.Respond("/chat/completions", providertest.Response{
			Body: providertest.ChatBody("c1", "pong"),
		})

		prober := newTestProber()
		status := prober.ValidateCredential(context.Background(), providertest.StandardInstance("a", server.URL()))
		if !status.Valid || !status.Confirmed {
			t.Errorf("status = %+v, want valid and confirmed", status)
		}
	})

	t.Run("rejected key invalid", func(t *testing.T) {
		server := providertest.NewServer()
		defer server.Close()
		server.Respond("/chat/completions", providertest.Response{StatusCode: 401, Body: "{}"})

		prober := newTestProber()
		status := prober.ValidateCredential(context.Background(), providertest.StandardInstance("a", server.URL()))
		if status.Valid {
			t.Errorf("status = %+v, want invalid", status)
		}
	})

	t.Run("rate limit is valid but unconfirmed", func(t *testing.T) {
		server := providertest.NewServer()
		defer server.Close()
		server.Respond("/chat/completions", providertest.Response{StatusCode: 429, Body: "{}"})

		prober := newTestProber()
		status := prober.ValidateCredential(context.Background(), providertest.StandardInstance("a", server.URL()))
		if !status.Valid || status.Confirmed {
			t.Errorf("status = %+v, want valid but unconfirmed", status)
		}
	})

	t.Run("empty key invalid without network", func(t *testing.T) {
		server := providertest.NewServer()
		defer server.Close()

		inst := providertest.StandardInstance("a", server.URL())
		inst.APIKey = ""

		prober := newTestProber()
		status := prober.ValidateCredential(context.Background(), inst)
		if status.Valid {
			t.Errorf("status = %+v, want invalid", status)
		}
		if server.RequestCount() != 0 {
			t.Errorf("validation made %d network calls without a credential", server.RequestCount())
		}
	})
}
