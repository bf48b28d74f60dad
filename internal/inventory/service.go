// Package inventory implements the stock operations of the tracker and the
// activity log that records them.
//
// Every mutation runs in one store transaction together with its activity
// entry. Reads always go to the store; nothing is cached between calls.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/stockroom/internal/sqlite"
	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Store is the persistence the service runs on. *sqlite.Backend satisfies it.
type Store interface {
	View(ctx context.Context, fn func(tx *sqlite.Tx) error) error
	Update(ctx context.Context, fn func(tx *sqlite.Tx) error) error
}

// Service performs the domain operations against a Store.
type Service struct {
	store Store
	now   func() time.Time
	log   logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used to stamp activity entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger for operation records.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

// NewService returns a Service backed by store.
func NewService(store Store, opts ...Option) *Service {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	s := &Service{store: store, now: time.Now, log: quiet}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddProduct inserts a product and logs it. Only negative or NaN prices and
// negative quantities are rejected here; stricter input rules belong to the
// caller.
func (s *Service) AddProduct(ctx context.Context, name string, price float64, qty int) (Result, error) {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return Result{}, types.ErrInvalidPrice
	}
	if qty < 0 {
		return Result{}, types.ErrInvalidQuantity
	}

	p := types.Product{Name: name, Price: price, Quantity: qty}
	err := s.store.Update(ctx, func(tx *sqlite.Tx) error {
		if err := tx.Products.Insert(ctx, &p); err != nil {
			return err
		}
		return s.appendAction(ctx, tx,
			fmt.Sprintf("Added product %s, Qty=%d, Price=%s", name, qty, formatPrice(price)))
	})
	if err != nil {
		return Result{}, fmt.Errorf("adding product: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"product_id": p.ID,
		"name":       name,
		"quantity":   qty,
		"price":      price,
	}).Debug("product added")

	return Result{
		Success:   true,
		Affected:  true,
		ProductID: p.ID,
		Message:   fmt.Sprintf("Product '%s' added successfully!", name),
	}, nil
}

// UpdateStock overwrites the quantity of a product. An unknown id is not an
// error: the entry is still logged and Result.Affected is false.
func (s *Service) UpdateStock(ctx context.Context, id int64, qty int) (Result, error) {
	if qty < 0 {
		return Result{}, types.ErrInvalidQuantity
	}

	var matched bool
	err := s.store.Update(ctx, func(tx *sqlite.Tx) error {
		var err error
		if matched, err = tx.Products.SetQuantity(ctx, id, qty); err != nil {
			return err
		}
		return s.appendAction(ctx, tx,
			fmt.Sprintf("Updated stock for Product ID %d to %d", id, qty))
	})
	if err != nil {
		return Result{}, fmt.Errorf("updating stock: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"product_id": id,
		"quantity":   qty,
		"matched":    matched,
	}).Debug("stock updated")

	return Result{
		Success:   true,
		Affected:  matched,
		ProductID: id,
		Message:   "Stock updated successfully!",
	}, nil
}

// SellProduct removes qty units from stock and logs the sale total. An
// unknown id or insufficient stock leaves the store untouched and writes no
// entry. The stock check and the decrement are one conditional statement.
func (s *Service) SellProduct(ctx context.Context, id int64, qty int) (Result, error) {
	if qty <= 0 {
		return Result{}, types.ErrInvalidQuantity
	}

	var res Result
	err := s.store.Update(ctx, func(tx *sqlite.Tx) error {
		p, err := tx.Products.Get(ctx, id)
		if errors.Is(err, types.ErrNotFound) {
			res = Result{
				ProductID: id,
				Reason:    types.ErrProductNotFound,
				Message:   "Product not found.",
			}
			return nil
		}
		if err != nil {
			return err
		}

		ok, err := tx.Products.Decrement(ctx, id, qty)
		if err != nil {
			return err
		}
		if !ok {
			res = Result{
				Affected:  true,
				ProductID: id,
				Reason:    types.ErrInsufficientStock,
				Message:   "Not enough stock available.",
			}
			return nil
		}

		unit := decimal.NewFromFloat(p.Price)
		sale := &Sale{
			ProductID: id,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: unit,
			Total:     unit.Mul(decimal.NewFromInt(int64(qty))),
			Remaining: p.Quantity - qty,
		}
		total := FormatMoney(sale.Total)
		if err := s.appendAction(ctx, tx,
			fmt.Sprintf("Sold %d of %s, Total=%s", qty, p.Name, total)); err != nil {
			return err
		}

		res = Result{
			Success:   true,
			Affected:  true,
			ProductID: id,
			Sale:      sale,
			Message:   fmt.Sprintf("Sold %d x %s. Total = %s", qty, p.Name, total),
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("selling product: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"product_id": id,
		"quantity":   qty,
		"success":    res.Success,
		"reason":     res.Reason,
	}).Debug("sale attempted")

	return res, nil
}

// DeleteProduct removes a product. The entry is logged whether or not the
// id existed; Result.Affected tells the two apart.
func (s *Service) DeleteProduct(ctx context.Context, id int64) (Result, error) {
	var existed bool
	err := s.store.Update(ctx, func(tx *sqlite.Tx) error {
		var err error
		if existed, err = tx.Products.Delete(ctx, id); err != nil {
			return err
		}
		return s.appendAction(ctx, tx, fmt.Sprintf("Deleted Product ID %d", id))
	})
	if err != nil {
		return Result{}, fmt.Errorf("deleting product: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"product_id": id,
		"existed":    existed,
	}).Debug("product deleted")

	return Result{
		Success:   true,
		Affected:  existed,
		ProductID: id,
		Message:   fmt.Sprintf("Deleted Product ID %d", id),
	}, nil
}

// ClearActivityLog deletes every activity entry. Clearing is not itself
// logged.
func (s *Service) ClearActivityLog(ctx context.Context) error {
	var n int64
	err := s.store.Update(ctx, func(tx *sqlite.Tx) error {
		var err error
		n, err = tx.Activity.Clear(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("clearing activity log: %w", err)
	}
	s.log.WithField("removed", n).Debug("activity log cleared")
	return nil
}

// Inventory returns all products in id order.
func (s *Service) Inventory(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	err := s.store.View(ctx, func(tx *sqlite.Tx) error {
		var err error
		products, err = tx.Products.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	return products, nil
}

// ActivityLog returns all activity entries, most recent first.
func (s *Service) ActivityLog(ctx context.Context) ([]types.ActivityEntry, error) {
	var entries []types.ActivityEntry
	err := s.store.View(ctx, func(tx *sqlite.Tx) error {
		var err error
		entries, err = tx.Activity.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing activity log: %w", err)
	}
	return entries, nil
}

// LogAction appends one free-text entry stamped with the service clock.
func (s *Service) LogAction(ctx context.Context, text string) error {
	err := s.store.Update(ctx, func(tx *sqlite.Tx) error {
		return s.appendAction(ctx, tx, text)
	})
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

func (s *Service) appendAction(ctx context.Context, tx *sqlite.Tx, text string) error {
	_, err := tx.Activity.Append(ctx, text, s.now())
	return err
}
