// Package cli provides shared helpers for the beacon command line: output
// formatting, command error types, and signal-aware contexts.
package cli
