package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roniherschmann/clicklog/internal/metrics"
)

var schema = map[Dialect][]string{
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS clicks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ip_address TEXT NOT NULL,
			click_time TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_clicks_click_time ON clicks(click_time);`,
	},
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS clicks (
			id SERIAL PRIMARY KEY,
			ip_address TEXT NOT NULL,
			click_time TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_clicks_click_time ON clicks(click_time);`,
	},
}

// Migrate ensures the clicks table exists. Safe to call any number of times.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	defer metrics.ObserveQuery("migrate", time.Now())

	stmts, ok := schema[dialect]
	if !ok {
		return fmt.Errorf("migrate: unknown dialect %q", dialect)
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
