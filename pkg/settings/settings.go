package settings

import (
	"fmt"
	"strings"

	"sightline-hq/beacon/pkg/catalog"
	"sightline-hq/beacon/pkg/providers"
)

// ProviderEntry is one configured provider in the settings file.
type ProviderEntry struct {
	// ID must match a catalog definition identifier.
	ID string `yaml:"id"`

	// APIKey is the credential. Usually supplied via the
	// BEACON_<PROVIDER>_API_KEY environment override instead of the file.
	APIKey string `yaml:"api_key,omitempty"`

	// Model selects a model; empty means the catalog default.
	Model string `yaml:"model,omitempty"`

	// Enabled controls chain and sweep membership. Defaults to true.
	Enabled *bool `yaml:"enabled,omitempty"`

	// MaxTokens is an instance-level output cap. Zero means unset.
	MaxTokens int `yaml:"max_tokens,omitempty"`
}

// Config is the full settings file shape.
type Config struct {
	// Providers is the ordered provider list; order is fallback order.
	Providers []ProviderEntry `yaml:"providers"`

	// Primary optionally names the provider tried first regardless of
	// list order.
	Primary string `yaml:"primary,omitempty"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`

	// Health configures the background sweep schedule.
	Health HealthConfig `yaml:"health"`

	// Journal configures the optional attempt journal.
	Journal JournalConfig `yaml:"journal"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`

	// Format is json or text.
	Format string `yaml:"format"`
}

// HealthConfig configures scheduled health sweeps.
type HealthConfig struct {
	// Schedule is a cron expression; empty disables sweeps.
	Schedule string `yaml:"schedule,omitempty"`
}

// JournalConfig configures the attempt journal.
type JournalConfig struct {
	// Path is the SQLite file; empty disables journaling.
	Path string `yaml:"path,omitempty"`

	// Keep caps retained records. Zero means DefaultJournalKeep.
	Keep int `yaml:"keep,omitempty"`
}

// DefaultJournalKeep is the retained-record cap applied when the file
// enables the journal without one.
const DefaultJournalKeep = 1000

// ApplyDefaults fills unset fields in place.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Journal.Path != "" && cfg.Journal.Keep == 0 {
		cfg.Journal.Keep = DefaultJournalKeep
	}
	for i := range cfg.Providers {
		if cfg.Providers[i].Enabled == nil {
			enabled := true
			cfg.Providers[i].Enabled = &enabled
		}
	}
}

// FieldError is a validation failure for one configuration field.
type FieldError struct {
	// Field is the dotted path to the offending field.
	Field string

	// Message describes what is wrong.
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates every failure found in one pass.
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("settings validation failed: %s", e.Errors[0].Error())
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "settings validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks the configuration against the catalog. All errors are
// collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	seen := make(map[string]bool, len(cfg.Providers))
	for i, entry := range cfg.Providers {
		field := fmt.Sprintf("providers[%d]", i)

		if entry.ID == "" {
			errs = append(errs, FieldError{Field: field + ".id", Message: "identifier is required"})
			continue
		}

		def, ok := catalog.Lookup(entry.ID)
		if !ok {
			errs = append(errs, FieldError{
				Field:   field + ".id",
				Message: fmt.Sprintf("unknown provider %q (known: %s)", entry.ID, strings.Join(catalog.IDs(), ", ")),
			})
			continue
		}

		// At most one instance per identifier in a chain.
		if seen[entry.ID] {
			errs = append(errs, FieldError{
				Field:   field + ".id",
				Message: fmt.Sprintf("provider %q configured more than once", entry.ID),
			})
			continue
		}
		seen[entry.ID] = true

		if entry.Model != "" && !def.SupportsModel(entry.Model) {
			errs = append(errs, FieldError{
				Field:   field + ".model",
				Message: fmt.Sprintf("model %q is not offered by %q", entry.Model, entry.ID),
			})
		}
		if entry.MaxTokens < 0 {
			errs = append(errs, FieldError{
				Field:   field + ".max_tokens",
				Message: "must not be negative",
			})
		}
	}

	if cfg.Primary != "" && !seen[cfg.Primary] {
		errs = append(errs, FieldError{
			Field:   "primary",
			Message: fmt.Sprintf("primary %q is not in the provider list", cfg.Primary),
		})
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", cfg.Logging.Format),
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// BuildInstances resolves the configured entries against the catalog into
// the instance snapshot the core consumes. The configuration must already be
// validated; unknown identifiers are skipped defensively.
func (c *Config) BuildInstances() []providers.Instance {
	instances := make([]providers.Instance, 0, len(c.Providers))
	for _, entry := range c.Providers {
		def, ok := catalog.Lookup(entry.ID)
		if !ok {
			continue
		}
		inst := providers.NewInstance(def)
		inst.APIKey = entry.APIKey
		if entry.Model != "" {
			inst.Model = entry.Model
		}
		if entry.Enabled != nil {
			inst.Enabled = *entry.Enabled
		}
		inst.MaxTokens = entry.MaxTokens
		instances = append(instances, inst)
	}
	return instances
}
