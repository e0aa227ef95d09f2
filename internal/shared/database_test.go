package shared

import (
	"path/filepath"
	"testing"
)

func TestNewDatabase(t *testing.T) {
	t.Run("In Memory", func(t *testing.T) {
		db, err := NewDatabase(DatabaseConfig{Path: ":memory:"})
		if err != nil {
			t.Fatalf("failed to open in-memory database: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)"); err != nil {
			t.Errorf("in-memory database should accept writes: %v", err)
		}
	})

	t.Run("File Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tempo.db")

		db, err := NewDatabase(DatabaseConfig{Path: path, MaxOpenConns: 4, MaxIdleConns: 2})
		if err != nil {
			t.Fatalf("failed to open database at %s: %v", path, err)
		}
		defer db.Close()

		if got := db.Stats().MaxOpenConnections; got != 4 {
			t.Errorf("expected max open connections 4, got %d", got)
		}
	})

	t.Run("Zero Limits Keep Driver Defaults", func(t *testing.T) {
		db, err := NewDatabase(DatabaseConfig{Path: ":memory:"})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if got := db.Stats().MaxOpenConnections; got != 0 {
			t.Errorf("expected unlimited open connections, got %d", got)
		}
	})

	t.Run("Invalid Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "nested", "tempo.db")

		if db, err := NewDatabase(DatabaseConfig{Path: path}); err == nil {
			db.Close()
			t.Error("expected error for database path in a missing directory")
		}
	})
}
