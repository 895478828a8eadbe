package providers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestProviderErrorMessage(t *testing.T) {
	perr := NewProviderError("openai", KindAuth, "invalid api key")
	got := perr.Error()
	for _, want := range []string{"openai", "auth_error", "invalid api key"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestProviderErrorRateLimitIncludesRetryAfter(t *testing.T) {
	perr := NewProviderError("groq", KindRateLimit, "slow down")
	perr.RetryAfter = 2 * time.Second
	if !strings.Contains(perr.Error(), "retry after 2s") {
		t.Errorf("Error() = %q, missing retry-after hint", perr.Error())
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	perr := WrapProviderError("ollama", KindNetwork, "request failed", cause)

	if !errors.Is(perr, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestAsProviderError(t *testing.T) {
	perr := NewProviderError("openai", KindNetwork, "boom")
	wrapped := fmt.Errorf("invoking provider: %w", perr)

	got, ok := AsProviderError(wrapped)
	if !ok {
		t.Fatal("expected to find ProviderError in chain")
	}
	if got.Kind != KindNetwork || got.Provider != "openai" {
		t.Errorf("unexpected extraction: %+v", got)
	}

	if _, ok := AsProviderError(errors.New("plain")); ok {
		t.Error("plain errors must not classify")
	}
}
