// Package journal persists fallback attempt provenance and probe results for
// diagnostics. The invocation core itself stays stateless: the journal is an
// observer the caller attaches to the orchestrator (it implements
// fallback.Recorder), and everything keeps working when it is absent.
//
// Storage is a single SQLite file (pure-Go driver, WAL mode). Each recorded
// outcome keeps the ordered attempt list and per-attempt error kinds as JSON
// columns, enough to answer "what did we try last night and why did it fall
// through to the local model". A retention cap prunes old records on insert.
package journal
