package domain

import (
	"fmt"
	"strings"
)

// Mode selects how a store file is opened. It is fixed for the lifetime of
// an open store; there is no runtime mode switching.
type Mode int

const (
	// ModeReadOnly opens an existing file for reads. The schema must exist.
	ModeReadOnly Mode = iota
	// ModeReadWrite opens or creates a file with full CRUD under the guard.
	ModeReadWrite
	// ModeStream opens or creates a file for single-writer bulk ingestion.
	ModeStream
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeReadOnly:
		return "readonly"
	case ModeReadWrite:
		return "readwrite"
	case ModeStream:
		return "stream"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as returned by String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "readonly", "ro":
		return ModeReadOnly, nil
	case "readwrite", "rw":
		return ModeReadWrite, nil
	case "stream":
		return ModeStream, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidMode, s)
	}
}

// ModePolicy is the fixed per-mode configuration consulted by store
// implementations instead of comparing modes directly.
type ModePolicy struct {
	// ReadOnlyBackend opens the backend read-only; the file must exist.
	ReadOnlyBackend bool
	// Locking enables the reader/writer guard.
	Locking bool
	// Batching groups writes into backend transactions.
	Batching bool
	// DeferIndex postpones unique index creation until close.
	DeferIndex bool
	// AllowReads permits get and list operations.
	AllowReads bool
	// AllowWrites permits set and clear operations.
	AllowWrites bool
	// MaxThreads bounds the fan-out; zero means unbounded.
	MaxThreads int
}

var policies = map[Mode]ModePolicy{
	ModeReadOnly: {
		ReadOnlyBackend: true,
		Locking:         true,
		AllowReads:      true,
	},
	ModeReadWrite: {
		Locking:     true,
		AllowReads:  true,
		AllowWrites: true,
	},
	ModeStream: {
		Batching:    true,
		DeferIndex:  true,
		AllowWrites: true,
		MaxThreads:  1,
	},
}

// Policy returns the configuration for m.
// Unknown modes get the zero policy, which allows nothing.
func (m Mode) Policy() ModePolicy {
	return policies[m]
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	_, ok := policies[m]
	return ok
}

// ValidateThreads checks the fan-out nth against the mode.
func (m Mode) ValidateThreads(nth int) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMode, m)
	}
	if nth < 1 {
		return fmt.Errorf("%w: nth=%d", ErrInvalidInput, nth)
	}
	if limit := m.Policy().MaxThreads; limit > 0 && nth > limit {
		return fmt.Errorf("%w: %s mode requires nth<=%d, got %d", ErrInvalidInput, m, limit, nth)
	}
	return nil
}
