package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestProviderMetrics_Counters(t *testing.T) {
	pm := NewProviderMetrics(Config{}, prometheus.NewRegistry())

	pm.RecordRequest("openai", "gpt-4o")
	pm.RecordRequest("openai", "gpt-4o")
	pm.RecordError("openai", "rate_limit")

	if got := testutil.ToFloat64(pm.requests.WithLabelValues("openai", "gpt-4o")); got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(pm.errors.WithLabelValues("openai", "rate_limit")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
}

func TestProviderMetrics_HealthGauge(t *testing.T) {
	pm := NewProviderMetrics(Config{}, prometheus.NewRegistry())

	pm.SetHealth("anthropic", 1)
	pm.SetHealth("ollama", 0.5)

	if got := testutil.ToFloat64(pm.health.WithLabelValues("anthropic")); got != 1 {
		t.Errorf("anthropic health = %v", got)
	}
	if got := testutil.ToFloat64(pm.health.WithLabelValues("ollama")); got != 0.5 {
		t.Errorf("ollama health = %v", got)
	}
}

func TestProviderMetrics_HandlerExposition(t *testing.T) {
	pm := NewProviderMetrics(Config{}, nil)

	pm.RecordRequest("groq", "llama-3.3-70b-versatile")
	pm.ObserveLatency("groq", "llama-3.3-70b-versatile", 250*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	pm.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "sightline_beacon_provider_requests_total") {
		t.Errorf("exposition missing request counter:\n%s", body)
	}
	if !strings.Contains(body, "sightline_beacon_provider_latency_seconds") {
		t.Errorf("exposition missing latency histogram:\n%s", body)
	}
}

func TestProviderMetrics_CustomNamespace(t *testing.T) {
	pm := NewProviderMetrics(Config{Namespace: "custom", Subsystem: "gw"}, nil)
	pm.RecordRequest("openai", "gpt-4o")

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	pm.Handler().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "custom_gw_provider_requests_total") {
		t.Error("custom namespace not applied")
	}
}
