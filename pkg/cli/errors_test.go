package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("providers[0].id", "identifier is required")
	if !strings.Contains(err.Error(), "providers[0].id") {
		t.Errorf("Error() = %q", err.Error())
	}

	bare := NewConfigError("", "settings file missing")
	if strings.Contains(bare.Error(), "in ") {
		t.Errorf("Error() = %q, field prefix should be omitted", bare.Error())
	}
}

func TestCommandError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewCommandError("probe", cause)

	if !strings.Contains(err.Error(), "probe") || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", err), cause) {
		t.Error("CommandError should unwrap to its cause")
	}
}
