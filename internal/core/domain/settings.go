package domain

import (
	"runtime"
	"time"
)

// Configuration keys read from the config file.
const (
	KeyThreads       = "store.threads"
	KeyBusyTimeoutMS = "store.busy_timeout_ms"
	KeyBatchSize     = "stream.batch_size"
	KeyVerbose       = "log.verbose"
)

// Defaults applied when a key is absent or invalid.
const (
	DefaultBusyTimeout = 5 * time.Second
	DefaultBatchSize   = 10000
)

// Settings holds the tunables of the bfs tool.
type Settings struct {
	// Threads is the fan-out used by read-write and read-only opens.
	Threads int
	// BusyTimeout bounds how long the backend waits on a locked file.
	BusyTimeout time.Duration
	// BatchSize is the number of stream mode writes per transaction.
	BatchSize int
	// Verbose enables debug logging.
	Verbose bool
}

// DefaultSettings returns the settings used without a config file.
func DefaultSettings() Settings {
	return Settings{
		Threads:     runtime.NumCPU(),
		BusyTimeout: DefaultBusyTimeout,
		BatchSize:   DefaultBatchSize,
	}
}

// Normalize replaces non-positive values with their defaults.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if s.Threads < 1 {
		s.Threads = def.Threads
	}
	if s.BusyTimeout <= 0 {
		s.BusyTimeout = def.BusyTimeout
	}
	if s.BatchSize < 1 {
		s.BatchSize = def.BatchSize
	}
	return s
}
