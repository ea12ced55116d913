// Package logging provides structured logging for Relay Core.
//
// It wraps log/slog with configuration-driven level, format and output
// selection, and attaches default service/version fields to every record.
// Components obtain child loggers via With("component", name).
package logging
