package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

// LegacyStore reads the register of the previous disciplinary system.
type LegacyStore struct {
	db     *sql.DB
	driver string
	table  string
}

// NewLegacyStore creates a new LegacyStore.
func NewLegacyStore(db *sql.DB, driver, table string) *LegacyStore {
	return &LegacyStore{db: db, driver: driver, table: table}
}

// ListRows returns legacy rows with ids in [from, to] in id order.
// Nameless rows are kept: they separate cases in the old register.
func (s *LegacyStore) ListRows(ctx context.Context, from, to int64) ([]models.LegacyRow, error) {
	ph := placeholders(s.driver, 1, 2)
	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s BETWEEN %s AND %s ORDER BY %s",
		models.ColID, models.ColName, quoteIdent(s.table), models.ColID, ph[0], ph[1], models.ColID)

	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []models.LegacyRow
	for rows.Next() {
		var r models.LegacyRow
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("failed to scan legacy record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.table, err)
	}
	return out, nil
}
