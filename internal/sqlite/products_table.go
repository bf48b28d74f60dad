package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// ProductsTable reads and writes rows of the products table.
type ProductsTable struct {
	q querier
}

// Insert stores p and sets p.ID to the assigned id.
func (t *ProductsTable) Insert(ctx context.Context, p *types.Product) error {
	res, err := t.q.ExecContext(ctx,
		"INSERT INTO products (name, price, quantity) VALUES (?, ?, ?)",
		p.Name, p.Price, p.Quantity)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading product id: %w", err)
	}
	p.ID = id
	return nil
}

// Restore inserts p with its existing id.
func (t *ProductsTable) Restore(ctx context.Context, p types.Product) error {
	_, err := t.q.ExecContext(ctx,
		"INSERT INTO products (id, name, price, quantity) VALUES (?, ?, ?, ?)",
		p.ID, p.Name, p.Price, p.Quantity)
	if err != nil {
		return fmt.Errorf("restoring product %d: %w", p.ID, err)
	}
	return nil
}

// Get returns the product with the given id, or ErrNotFound.
func (t *ProductsTable) Get(ctx context.Context, id int64) (*types.Product, error) {
	row := t.q.QueryRowContext(ctx,
		"SELECT id, name, price, quantity FROM products WHERE id = ?", id)

	var p types.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	return &p, nil
}

// SetQuantity overwrites the quantity of the given product. It reports
// whether a row matched; a missing id is not an error.
func (t *ProductsTable) SetQuantity(ctx context.Context, id int64, quantity int) (bool, error) {
	res, err := t.q.ExecContext(ctx,
		"UPDATE products SET quantity = ? WHERE id = ?", quantity, id)
	if err != nil {
		return false, fmt.Errorf("updating quantity: %w", err)
	}
	return affected(res)
}

// Decrement subtracts qty from the stock of the given product only when the
// stock covers it. It reports whether the row changed.
func (t *ProductsTable) Decrement(ctx context.Context, id int64, qty int) (bool, error) {
	res, err := t.q.ExecContext(ctx,
		"UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?",
		qty, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrementing quantity: %w", err)
	}
	return affected(res)
}

// Delete removes the product with the given id. It reports whether a row
// existed; a missing id is not an error.
func (t *ProductsTable) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := t.q.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting product: %w", err)
	}
	return affected(res)
}

// List returns every product in id order.
func (t *ProductsTable) List(ctx context.Context) ([]types.Product, error) {
	rows, err := t.q.QueryContext(ctx,
		"SELECT id, name, price, quantity FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []types.Product{}
	for rows.Next() {
		var p types.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n > 0, nil
}
