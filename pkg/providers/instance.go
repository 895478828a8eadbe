package providers

import "sightline-hq/beacon/pkg/catalog"

// Instance is a configured provider: a static catalog definition plus the
// runtime state owned by the settings layer. The invocation core reads
// instances as immutable snapshots; only the settings collaborator mutates
// them, and only between calls.
type Instance struct {
	// Definition is the static backend description.
	Definition catalog.Definition

	// APIKey is the configured credential. May be empty when the
	// definition does not require one, or before the user enters it.
	APIKey string

	// Model is the selected model identifier. Empty means the
	// definition's default model.
	Model string

	// Enabled controls whether the instance participates in fallback
	// chains and health sweeps.
	Enabled bool

	// MaxTokens is an instance-level output cap applied when the caller
	// does not set one. Zero means the translator default.
	MaxTokens int
}

// NewInstance builds an enabled instance with the definition's defaults.
func NewInstance(def catalog.Definition) Instance {
	return Instance{
		Definition: def,
		Model:      def.DefaultModel,
		Enabled:    true,
	}
}

// ID returns the definition identifier.
func (in Instance) ID() string {
	return in.Definition.ID
}

// EffectiveModel returns the selected model, falling back to the default.
func (in Instance) EffectiveModel() string {
	if in.Model != "" {
		return in.Model
	}
	return in.Definition.DefaultModel
}

// HasCredential reports whether a credential is configured.
func (in Instance) HasCredential() bool {
	return in.APIKey != ""
}

// MissingCredential reports whether the instance needs a credential it
// does not have. Such instances cannot be invoked or probed.
func (in Instance) MissingCredential() bool {
	return in.Definition.RequiresKey && !in.HasCredential()
}
