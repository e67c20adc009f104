// Package logging provides slog helpers shared across the backend:
// consistent attribute keys, error/status attribute constructors, and
// principal-id anonymization so log lines can be correlated without
// leaking identifiers.
package logging
