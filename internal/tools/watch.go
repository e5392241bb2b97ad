package tools

import (
	"context"
	"os"
	"time"

	"atelier/internal/logging"
)

// watchInterval is how often the watchdog checks the parent PID. A var so
// tests can shorten it.
var watchInterval = 2 * time.Second

// WatchParent monitors for parent process death from a background
// goroutine and calls cancel when the parent PID changes, so an orphaned
// stdio server does not linger after its host disconnects.
//
// It must NOT read from stdin — the MCP SDK's StdioTransport owns stdin
// exclusively, and stealing bytes here would corrupt the JSON-RPC stream.
//
// The goroutine exits when ctx is canceled or parent death is detected.
func WatchParent(ctx context.Context, cancel context.CancelFunc) {
	ppid := os.Getppid()
	log := logging.New("watchdog")
	go func() {
		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if os.Getppid() != ppid {
					log.Warn("parent process died, initiating shutdown", "was_pid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
