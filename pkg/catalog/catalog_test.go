package catalog

import "testing"

func TestLookup(t *testing.T) {
	def, ok := Lookup("anthropic")
	if !ok {
		t.Fatal("anthropic should be in the catalog")
	}
	if def.Family != FamilyMessages {
		t.Errorf("anthropic family = %q, want %q", def.Family, FamilyMessages)
	}
	if !def.RequiresKey {
		t.Error("anthropic should require a key")
	}

	if _, ok := Lookup("nope"); ok {
		t.Error("unknown identifier should not resolve")
	}
}

func TestCatalogInvariants(t *testing.T) {
	defs := All()
	if len(defs) == 0 {
		t.Fatal("catalog must not be empty")
	}

	seen := make(map[string]bool)
	for _, def := range defs {
		if def.ID == "" || def.DisplayName == "" || def.Endpoint == "" || def.DefaultModel == "" {
			t.Errorf("definition %q has empty required fields: %+v", def.ID, def)
		}
		if seen[def.ID] {
			t.Errorf("duplicate identifier %q", def.ID)
		}
		seen[def.ID] = true

		switch def.Family {
		case FamilyStandard, FamilyMessages:
		default:
			t.Errorf("definition %q has unknown family %q", def.ID, def.Family)
		}
		switch def.Tier {
		case TierPaid, TierFree, TierLocal:
		default:
			t.Errorf("definition %q has unknown tier %q", def.ID, def.Tier)
		}
		if def.Tier == TierLocal && def.RequiresKey {
			t.Errorf("local definition %q must not require a key", def.ID)
		}
		if !def.SupportsModel(def.DefaultModel) {
			t.Errorf("definition %q does not list its own default model", def.ID)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].ID = "mutated"

	if second := All(); second[0].ID == "mutated" {
		t.Error("All() must not expose the shared table")
	}
}

func TestIsLocal(t *testing.T) {
	ollama, _ := Lookup("ollama")
	if !ollama.IsLocal() {
		t.Error("ollama should be local")
	}
	openai, _ := Lookup("openai")
	if openai.IsLocal() {
		t.Error("openai should not be local")
	}
}

func TestSupportsModel(t *testing.T) {
	def, _ := Lookup("openai")
	if !def.SupportsModel("gpt-4o") {
		t.Error("gpt-4o should be supported")
	}
	if def.SupportsModel("made-up") {
		t.Error("unlisted model should not be supported")
	}

	open := Definition{ID: "x"}
	if !open.SupportsModel("anything") {
		t.Error("empty model list accepts any model")
	}
}
