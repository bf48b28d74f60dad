// This file implements JSONL import, the inverse of ExportJSONL.
package sqlite

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// ErrStoreNotEmpty is returned by ImportJSONL when either table has rows.
var ErrStoreNotEmpty = errors.New("store is not empty")

// ImportStats counts what ImportJSONL loaded and skipped.
type ImportStats struct {
	Products int
	Activity int
	Skipped  int // Malformed or invalid lines.
}

// ImportJSONL loads products.jsonl and activity_log.jsonl from dir into an
// empty store, keeping the exported ids. Loading is transactional: all rows
// load or none do. Missing files count as empty. Malformed lines and rows
// that break a product invariant are skipped; unknown fields are ignored.
func (b *Backend) ImportJSONL(ctx context.Context, dir string) (ImportStats, error) {
	var stats ImportStats

	products, skipped, err := readJSONL[types.Product](filepath.Join(dir, ProductsJSONL))
	if err != nil {
		return stats, err
	}
	stats.Skipped += skipped

	entries, skipped, err := readJSONL[types.ActivityEntry](filepath.Join(dir, ActivityJSONL))
	if err != nil {
		return stats, err
	}
	stats.Skipped += skipped

	err = b.Update(ctx, func(tx *Tx) error {
		existing, err := tx.Products.List(ctx)
		if err != nil {
			return err
		}
		logged, err := tx.Activity.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 || len(logged) > 0 {
			return ErrStoreNotEmpty
		}

		for _, p := range products {
			if p.ID <= 0 || p.Name == "" || p.Price < 0 || p.Quantity < 0 {
				stats.Skipped++
				continue
			}
			if err := tx.Products.Restore(ctx, p); err != nil {
				return err
			}
			stats.Products++
		}
		for _, e := range entries {
			if e.ID <= 0 || e.Timestamp.IsZero() {
				stats.Skipped++
				continue
			}
			if err := tx.Activity.Restore(ctx, e); err != nil {
				return err
			}
			stats.Activity++
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}

// readJSONL decodes one T per non-blank line of path. It returns the number
// of lines that failed to decode. A missing file yields no records.
func readJSONL[T any](path string) ([]T, int, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var (
		records []T
		skipped int
	)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return records, skipped, nil
}
