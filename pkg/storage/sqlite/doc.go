// Package sqlite provides a durable storage.Backend on top of modernc.org/sqlite.
//
// It plays the role browser localStorage plays for the dashboard: a single
// table of string keys and string values, shared by every process that opens
// the same file. There is no cross-process coordination beyond SQLite's own
// locking, so concurrent writers to the same key race and the last write wins.
package sqlite
