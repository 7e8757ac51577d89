package backend

import (
	"fmt"
	"log/slog"

	"carteira/internal/storage"
)

// Open builds the storage collaborator for the configured backend type.
func Open(cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case BoltBackend:
		kv, err := storage.NewBoltStore(cfg.BoltDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize bolt backend: %w", err)
		}
		slog.Info("Initialized bolt backend", "path", cfg.BoltDBPath)
		return &Result{Store: kv, Cleanup: kv.Close}, nil

	case SQLiteBackend:
		kv, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		slog.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
		return &Result{Store: kv, Cleanup: kv.Close}, nil

	case MemoryBackend:
		kv := storage.NewMemoryStore()
		slog.Info("Initialized memory backend")
		return &Result{Store: kv, Cleanup: kv.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
