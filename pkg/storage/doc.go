// Package storage provides the key/value layer underneath the persisted
// UI-state service.
//
// A Backend is an errorful driver (memory, no-op, SQLite, quota-limited).
// An Adapter wraps a Backend with best-effort semantics: reads of missing or
// unreadable keys report "absent", and write/remove failures are logged and
// swallowed. Nothing above the Adapter ever sees a storage error.
package storage
