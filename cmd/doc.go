// Package cmd implements the command-line interface for the clocked-in
// backend.
//
// This package provides the following commands:
//   - serve: Start the HTTP backend that serves the meeting-stats dashboard
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
