package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation     = "operation"
	KeyComponent     = "component"
	KeyPrincipalHash = "principal_hash"
	KeyDuration      = "duration"
	KeyStatus        = "status"
	KeyError         = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// New returns a JSON slog logger writing to stderr. Debug mode lowers
// the level and adds source locations.
func New(debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithComponent returns a logger with the component attribute set.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String(KeyComponent, component))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error. If err is nil, returns an
// empty Group attribute that will be omitted from output, so
// Err(maybeNilErr) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizePrincipal returns a hashed representation of a principal id
// for logging. Principal ids are already ephemeral, but hashing keeps
// bearer-adjacent identifiers out of log storage entirely.
func AnonymizePrincipal(principalID string) string {
	if principalID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(principalID))
	return "principal:" + hex.EncodeToString(hash[:8])
}

// PrincipalHash returns a slog attribute with the anonymized principal id.
func PrincipalHash(principalID string) slog.Attr {
	return slog.String(KeyPrincipalHash, AnonymizePrincipal(principalID))
}

// SanitizeToken returns a masked version of a token for logging. Only a
// length indicator is exposed; even partial token prefixes can aid
// attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
