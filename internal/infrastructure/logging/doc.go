// Package logging provides structured logging for Sentinel Core.
//
// It wraps the standard library's log/slog with service-wide attributes
// (service name, version) so every record is attributable when logs from
// multiple services land in the same aggregator. JSON output is the
// default; text output is available for local development.
package logging
