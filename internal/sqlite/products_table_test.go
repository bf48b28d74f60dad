package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mesh-intelligence/stockroom/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBackend creates an attached Backend in a temp dir and detaches it on
// cleanup.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

// insertProduct stores a product and returns it with its assigned id.
func insertProduct(t *testing.T, b *Backend, name string, price float64, qty int) types.Product {
	t.Helper()
	ctx := context.Background()
	p := types.Product{Name: name, Price: price, Quantity: qty}
	require.NoError(t, b.Update(ctx, func(tx *Tx) error {
		return tx.Products.Insert(ctx, &p)
	}))
	return p
}

func TestProductsTable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		check func(t *testing.T, b *Backend)
	}{
		{
			name: "insert assigns fresh increasing ids",
			check: func(t *testing.T, b *Backend) {
				a := insertProduct(t, b, "Widget", 9.99, 10)
				c := insertProduct(t, b, "Gadget", 4.5, 3)
				assert.NotZero(t, a.ID)
				assert.Greater(t, c.ID, a.ID)
			},
		},
		{
			name: "get returns stored values",
			check: func(t *testing.T, b *Backend) {
				want := insertProduct(t, b, "Widget", 9.99, 10)
				require.NoError(t, b.View(ctx, func(tx *Tx) error {
					got, err := tx.Products.Get(ctx, want.ID)
					require.NoError(t, err)
					assert.Equal(t, want, *got)
					return nil
				}))
			},
		},
		{
			name: "get missing id returns ErrNotFound",
			check: func(t *testing.T, b *Backend) {
				require.NoError(t, b.View(ctx, func(tx *Tx) error {
					_, err := tx.Products.Get(ctx, 404)
					assert.ErrorIs(t, err, types.ErrNotFound)
					return nil
				}))
			},
		},
		{
			name: "set quantity reports whether a row matched",
			check: func(t *testing.T, b *Backend) {
				p := insertProduct(t, b, "Widget", 9.99, 10)
				require.NoError(t, b.Update(ctx, func(tx *Tx) error {
					ok, err := tx.Products.SetQuantity(ctx, p.ID, 42)
					require.NoError(t, err)
					assert.True(t, ok)

					ok, err = tx.Products.SetQuantity(ctx, p.ID+100, 1)
					require.NoError(t, err)
					assert.False(t, ok)

					got, err := tx.Products.Get(ctx, p.ID)
					require.NoError(t, err)
					assert.Equal(t, 42, got.Quantity)
					return nil
				}))
			},
		},
		{
			name: "decrement only when stock covers the quantity",
			check: func(t *testing.T, b *Backend) {
				p := insertProduct(t, b, "Widget", 9.99, 5)
				require.NoError(t, b.Update(ctx, func(tx *Tx) error {
					ok, err := tx.Products.Decrement(ctx, p.ID, 6)
					require.NoError(t, err)
					assert.False(t, ok, "6 > 5 must not decrement")

					ok, err = tx.Products.Decrement(ctx, p.ID, 5)
					require.NoError(t, err)
					assert.True(t, ok)

					got, err := tx.Products.Get(ctx, p.ID)
					require.NoError(t, err)
					assert.Equal(t, 0, got.Quantity)
					return nil
				}))
			},
		},
		{
			name: "delete is a no-op for a missing id",
			check: func(t *testing.T, b *Backend) {
				p := insertProduct(t, b, "Widget", 9.99, 5)
				require.NoError(t, b.Update(ctx, func(tx *Tx) error {
					ok, err := tx.Products.Delete(ctx, p.ID)
					require.NoError(t, err)
					assert.True(t, ok)

					ok, err = tx.Products.Delete(ctx, p.ID)
					require.NoError(t, err)
					assert.False(t, ok)
					return nil
				}))
			},
		},
		{
			name: "list returns id order and an empty slice when empty",
			check: func(t *testing.T, b *Backend) {
				require.NoError(t, b.View(ctx, func(tx *Tx) error {
					got, err := tx.Products.List(ctx)
					require.NoError(t, err)
					assert.NotNil(t, got)
					assert.Empty(t, got)
					return nil
				}))

				insertProduct(t, b, "B", 1, 1)
				insertProduct(t, b, "A", 2, 2)
				require.NoError(t, b.View(ctx, func(tx *Tx) error {
					got, err := tx.Products.List(ctx)
					require.NoError(t, err)
					require.Len(t, got, 2)
					assert.Equal(t, "B", got[0].Name)
					assert.Equal(t, "A", got[1].Name)
					return nil
				}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, setupBackend(t))
		})
	}
}

func TestBackend_UpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	p := insertProduct(t, b, "Widget", 9.99, 10)

	boom := errors.New("boom")
	err := b.Update(ctx, func(tx *Tx) error {
		if _, err := tx.Products.SetQuantity(ctx, p.ID, 0); err != nil {
			return err
		}
		if _, err := tx.Activity.Append(ctx, "should vanish", time.Now()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, b.View(ctx, func(tx *Tx) error {
		got, err := tx.Products.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Quantity)

		entries, err := tx.Activity.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
		return nil
	}))
}
