package fingerprint

import (
	"log"
	"sync/atomic"
)

// debugLogs controls whether method-selection logs are emitted.
var debugLogs atomic.Bool

// SetDebugLogging enables/disables fingerprint method debug logs.
func SetDebugLogging(enabled bool) {
	debugLogs.Store(enabled)
}

// debugf logs when debug logging is enabled.
func debugf(format string, args ...any) {
	if debugLogs.Load() {
		log.Printf(format, args...)
	}
}
