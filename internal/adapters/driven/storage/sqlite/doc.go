// Package sqlite implements the store file on top of SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A store file holds two tables, tbl_attr (key, val) and
// tbl_blob (name, blob), each with a unique index on its key column.
//
// # Modes
//
//   - ReadOnly: the file must exist; get and list only.
//   - ReadWrite: full CRUD behind a readers/writer guard.
//   - Stream: a single goroutine bulk-loads with set and clear. The guard is
//     bypassed, writes are grouped DefaultBatchSize at a time into one
//     transaction, and unique indices on a new file are built by Close.
//
// # Thread Safety
//
// GetAttr, GetBlob and BlobSize take a shared lock and run on the prepared
// queries of a caller-chosen execution context in [0, nth). Each context owns
// its own connection, so nth goroutines may read at once provided each uses a
// distinct context. Listing, set and clear take the exclusive lock and run on
// a single writer connection. Listing visitors run under that lock and must
// not call back into the store.
//
// # Schema
//
// The schema lives in migrations/ as NNN_name.up.sql files; the applied
// version is kept in PRAGMA user_version.
package sqlite
