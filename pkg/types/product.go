package types

import "time"

// Product is one row of the products table. Quantity is the only field that
// changes after creation.
type Product struct {
	ID       int64   `json:"id"`       // Assigned by the store on insert.
	Name     string  `json:"name"`     // Human-readable name.
	Price    float64 `json:"price"`    // Unit price, non-negative.
	Quantity int     `json:"quantity"` // Units in stock, non-negative.
}

// TimestampLayout is the stored text form of an activity timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// ActivityEntry is one row of the append-only activity log. It carries a
// human-readable description and no reference to a product row.
type ActivityEntry struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// FormatTimestamp renders t in local time at second precision.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// ParseTimestamp parses a stored timestamp as local time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.Local)
}
