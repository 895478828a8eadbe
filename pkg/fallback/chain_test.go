package fallback

import (
	"testing"

	"sightline-hq/beacon/internal/providertest"
	"sightline-hq/beacon/pkg/providers"
)

func instance(id string, enabled bool) providers.Instance {
	inst := providertest.StandardInstance(id, "http://unused")
	inst.Enabled = enabled
	return inst
}

func ids(chain []providers.Instance) []string {
	out := make([]string, len(chain))
	for i, inst := range chain {
		out[i] = inst.ID()
	}
	return out
}

func TestBuildChain(t *testing.T) {
	tests := []struct {
		name      string
		instances []providers.Instance
		primary   string
		want      []string
	}{
		{
			name:      "primary moves to front",
			instances: []providers.Instance{instance("a", true), instance("b", true), instance("c", true)},
			primary:   "b",
			want:      []string{"b", "a", "c"},
		},
		{
			name:      "no primary keeps order",
			instances: []providers.Instance{instance("a", true), instance("b", true)},
			primary:   "",
			want:      []string{"a", "b"},
		},
		{
			name:      "disabled excluded",
			instances: []providers.Instance{instance("a", true), instance("b", false), instance("c", true)},
			primary:   "",
			want:      []string{"a", "c"},
		},
		{
			name:      "disabled primary falls back to order",
			instances: []providers.Instance{instance("a", true), instance("b", false)},
			primary:   "b",
			want:      []string{"a"},
		},
		{
			name:      "unknown primary falls back to order",
			instances: []providers.Instance{instance("a", true), instance("b", true)},
			primary:   "nope",
			want:      []string{"a", "b"},
		},
		{
			name:      "primary already first not duplicated",
			instances: []providers.Instance{instance("a", true), instance("b", true)},
			primary:   "a",
			want:      []string{"a", "b"},
		},
		{
			name:      "all disabled yields empty chain",
			instances: []providers.Instance{instance("a", false), instance("b", false)},
			primary:   "a",
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(BuildChain(tt.instances, tt.primary))
			if len(got) != len(tt.want) {
				t.Fatalf("chain = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chain[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildChainDoesNotMutateInput(t *testing.T) {
	instances := []providers.Instance{instance("a", true), instance("b", true)}
	BuildChain(instances, "b")
	if instances[0].ID() != "a" || instances[1].ID() != "b" {
		t.Error("input slice order changed")
	}
}
