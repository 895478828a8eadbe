// Package logging builds the process-wide slog logger and keeps credentials
// out of its output.
//
// Everything in the repository logs through log/slog; this package only
// decides how the records are rendered (level, json/text) and runs every
// string attribute through a redactor that masks API-key shapes before they
// reach the writer. Provider credentials travel through request headers, not
// logs, but error bodies echoed back by a vendor can quote them; the
// redactor is the backstop for that.
package logging
