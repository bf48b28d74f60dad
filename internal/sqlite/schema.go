package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

// Schema DDL. Both statements are idempotent so Attach can run them on
// every start.
const (
	createProducts = `CREATE TABLE IF NOT EXISTS products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    price REAL NOT NULL,
    quantity INTEGER NOT NULL
);`

	createActivityLog = `CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    action TEXT NOT NULL,
    timestamp TEXT NOT NULL
);`
)

// pragmas returns the connection settings applied before the schema.
func pragmas(busyTimeout time.Duration) []string {
	return []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds()),
		"PRAGMA synchronous = NORMAL",
	}
}

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createProducts,
	createActivityLog,
}

// applySchema configures the connection and creates missing tables.
func applySchema(db *sql.DB, busyTimeout time.Duration) error {
	for _, p := range pragmas(busyTimeout) {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("applying %q: %w", p, err)
		}
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
