// Package memory provides in-memory implementations of the driven ports.
// The Store mirrors the mode rules and result semantics of the SQLite store
// and is used by service and CLI tests.
package memory
