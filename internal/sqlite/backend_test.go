// Tests for the SQLite backend lifecycle.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	err := b.Attach(config)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Verify database file created
	dbPath := filepath.Join(tmpDir, DatabaseFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("%s not created", DatabaseFile)
	}

	if got := b.DataDir(); got != tmpDir {
		t.Errorf("DataDir() = %q, want %q", got, tmpDir)
	}

	// Verify double attach fails
	err = b.Attach(config)
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	b.Detach()
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "", DataDir: t.TempDir()})
	if err != types.ErrBackendEmpty {
		t.Errorf("expected ErrBackendEmpty, got %v", err)
	}
}

func TestBackend_AttachCreatesNestedDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "a", "b")

	b := NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	if _, err := os.Stat(filepath.Join(dataDir, DatabaseFile)); err != nil {
		t.Errorf("expected database in nested dir: %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}

	b.Attach(config)

	err := b.Detach()
	if err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	err = b.Detach()
	if err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	// Verify operations fail after detach
	ctx := context.Background()
	err = b.View(ctx, func(tx *Tx) error { return nil })
	if err != types.ErrStoreDetached {
		t.Errorf("View: expected ErrStoreDetached, got %v", err)
	}
	err = b.Update(ctx, func(tx *Tx) error { return nil })
	if err != types.ErrStoreDetached {
		t.Errorf("Update: expected ErrStoreDetached, got %v", err)
	}
	if err := b.Ping(ctx); err != types.ErrStoreDetached {
		t.Errorf("Ping: expected ErrStoreDetached, got %v", err)
	}
}

func TestBackend_DataSurvivesReattach(t *testing.T) {
	ctx := context.Background()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}

	b := NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	err := b.Update(ctx, func(tx *Tx) error {
		return tx.Products.Insert(ctx, &types.Product{Name: "Widget", Price: 9.99, Quantity: 10})
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	b.Detach()

	// Attach again: schema creation is idempotent and keeps rows.
	b2 := NewBackend()
	if err := b2.Attach(config); err != nil {
		t.Fatalf("second Attach failed: %v", err)
	}
	defer b2.Detach()

	var products []types.Product
	err = b2.View(ctx, func(tx *Tx) error {
		var err error
		products, err = tx.Products.List(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Widget" {
		t.Errorf("expected the Widget row to survive, got %+v", products)
	}
}

func TestBackend_Ping(t *testing.T) {
	b := setupBackend(t)
	if err := b.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestBackend_BusyTimeoutPragma(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    int64
	}{
		{"default", 0, types.DefaultBusyTimeout.Milliseconds()},
		{"configured", 1500 * time.Millisecond, 1500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend()
			err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), BusyTimeout: tt.timeout})
			if err != nil {
				t.Fatalf("Attach failed: %v", err)
			}
			defer b.Detach()

			var got int64
			if err := b.db.QueryRow("PRAGMA busy_timeout").Scan(&got); err != nil {
				t.Fatalf("reading busy_timeout: %v", err)
			}
			if got != tt.want {
				t.Errorf("busy_timeout = %d, want %d", got, tt.want)
			}
		})
	}
}
