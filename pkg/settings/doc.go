// Package settings owns user configuration: which providers are enabled, in
// what order, with which credentials, models, and primary preference. It is
// the external collaborator the invocation core consumes configuration from;
// the core packages themselves never read files or environment variables.
//
// Configuration is a YAML file. Loading applies defaults, validates (unknown
// provider IDs, duplicate instances, unsupported models), and applies
// BEACON_<PROVIDER>_API_KEY environment overrides so credentials can stay out
// of the file. BuildInstances resolves the file's entries against the static
// catalog into the []providers.Instance snapshot the orchestrator and prober
// receive.
//
// A Watcher (fsnotify, debounced) invokes a reload callback when the file
// changes on disk, so a running UI picks up key entry or enable/disable
// toggles without restarting.
package settings
