package backend

import (
	"path/filepath"
	"testing"
)

func TestOpenAllBackends(t *testing.T) {
	dir := t.TempDir()
	cases := []Config{
		{Type: MemoryBackend},
		{Type: BoltBackend, BoltDBPath: filepath.Join(dir, "carteira.db")},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "carteira.sqlite")},
	}
	for _, cfg := range cases {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			res, err := Open(cfg)
			if err != nil {
				t.Fatalf("Open(%s): %v", cfg.Type, err)
			}
			if res.Store == nil || res.Cleanup == nil {
				t.Fatal("incomplete result")
			}
			if err := res.Cleanup(); err != nil {
				t.Fatalf("cleanup: %v", err)
			}
		})
	}
}

func TestOpenRejectsUnknownType(t *testing.T) {
	if _, err := Open(Config{Type: "redis"}); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
}

func TestTypeIsValid(t *testing.T) {
	for _, typ := range []Type{BoltBackend, SQLiteBackend, MemoryBackend} {
		if !typ.IsValid() {
			t.Fatalf("%s should be valid", typ)
		}
	}
	if Type("").IsValid() || Type("redis").IsValid() {
		t.Fatal("invalid types accepted")
	}
}
