package types

// Table names of the inventory store.
const (
	ProductsTable = "products"
	ActivityTable = "activity_log"
)
