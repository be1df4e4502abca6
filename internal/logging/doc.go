// Package logging builds the slog loggers used across dox.
//
// Two handler formats are supported: a compact console format for
// interactive use and JSON for machine consumption. Loggers write to stdout
// and, when a log directory is configured, to dox.log inside it. Attr
// helpers and standardized field keys keep structured output consistent
// between the daemon, the workflow stages, and the CLI.
package logging
