// Package logging configures diagnostic logging for the tool server.
// When serving MCP, stdin/stdout carry the JSON-RPC protocol, so all
// diagnostics go to a log file (or stderr as a last resort).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Init configures the global slog default with the given level and format.
// If w is nil, os.Stderr is used. Format must be "text" or "json".
func Init(level slog.Level, format string, w ...io.Writer) {
	var writer io.Writer = os.Stderr
	if len(w) > 0 && w[0] != nil {
		writer = w[0]
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// New returns a logger with a "component" attribute for module-scoped logging.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}

// OpenFile opens a per-process log file, trying sharedDir first and the
// system temp directory second. Returns nil when neither location is
// writable; callers should then fall back to stderr.
func OpenFile(sharedDir string) *os.File {
	name := fmt.Sprintf("atelier_mcp_%d.log", os.Getpid())

	candidates := []string{
		filepath.Join(sharedDir, name),
		filepath.Join(os.TempDir(), name),
	}
	for _, path := range candidates {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			return f
		}
	}
	return nil
}
