// This file provides JSONL export with atomic persistence.
package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// JSONL file names written by ExportJSONL.
const (
	ProductsJSONL = types.ProductsTable + ".jsonl"
	ActivityJSONL = types.ActivityTable + ".jsonl"
)

// ExportJSONL writes every product and activity entry to dir, one JSON
// object per line. Each file is replaced atomically. Entries keep the read
// order of the store: products by id, activity most recent first.
func (b *Backend) ExportJSONL(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	var products, activity []json.RawMessage
	err := b.View(ctx, func(tx *Tx) error {
		ps, err := tx.Products.List(ctx)
		if err != nil {
			return err
		}
		if products, err = marshalRecords(ps); err != nil {
			return err
		}
		es, err := tx.Activity.List(ctx)
		if err != nil {
			return err
		}
		activity, err = marshalRecords(es)
		return err
	})
	if err != nil {
		return err
	}

	if err := writeJSONL(filepath.Join(dir, ProductsJSONL), products); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(dir, ActivityJSONL), activity)
}

func marshalRecords[T any](items []T) ([]json.RawMessage, error) {
	records := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("marshaling record: %w", err)
		}
		records = append(records, data)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail(fmt.Errorf("writing record: %w", err))
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(fmt.Errorf("writing newline: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
