package inventory

import "github.com/shopspring/decimal"

// Result is the outcome of a mutating operation. Business-rule failures
// (unknown product, insufficient stock) come back as a Result with Success
// false and a typed Reason; the error return is kept for storage failures
// and invalid arguments.
type Result struct {
	Success bool
	Message string // User-facing text for the page.
	Reason  error  // types.ErrProductNotFound or types.ErrInsufficientStock when !Success.

	// Affected reports whether a product row matched. UpdateStock and
	// DeleteProduct succeed for unknown ids; callers use this to warn.
	Affected bool

	ProductID int64
	Sale      *Sale // Set by a successful SellProduct.
}

// Sale describes a completed sale.
type Sale struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	Remaining int // Stock left after the sale.
}

// FormatMoney renders an amount with two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatPrice renders a price as entered, keeping one decimal place for
// whole amounts: 9.99, 2.5, 10.0.
func formatPrice(price float64) string {
	d := decimal.NewFromFloat(price)
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(1)
	}
	return d.String()
}
