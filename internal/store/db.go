package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// NewDB opens and pings the register database. driver is "sqlite" for the
// desktop database file or "postgres" for the shared server.
func NewDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == "sqlite" {
		// the desktop file has one writer
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// placeholders returns n bind parameters in the driver's syntax, starting at from.
func placeholders(driver string, from, n int) []string {
	out := make([]string, n)
	for i := range out {
		if driver == "postgres" {
			out[i] = "$" + strconv.Itoa(from+i)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// quoteIdent quotes a table or view name taken from configuration.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
