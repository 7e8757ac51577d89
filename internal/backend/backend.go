// Package backend maps configuration to a concrete storage collaborator.
package backend

import (
	"carteira/internal/storage"
)

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the storage instance and its cleanup function.
type Result struct {
	Store   storage.KeyValue
	Cleanup CleanupFunc
}

// Config holds what the factory needs to build a backend.
type Config struct {
	Type Type

	BoltDBPath   string
	SQLiteDBPath string
}

// Type selects the storage implementation.
type Type string

const (
	BoltBackend   Type = "bolt"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case BoltBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
