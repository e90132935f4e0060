// Package stores provides the persistence layer for named presets. It
// includes a SQLite store with embedded migrations that keeps each preset
// as serialized option values plus an audit trail of saves and deletes.
package stores
