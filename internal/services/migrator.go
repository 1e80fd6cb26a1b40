package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

// LegacySource reads rows of the previous register.
type LegacySource interface {
	ListRows(ctx context.Context, from, to int64) ([]models.LegacyRow, error)
}

// RegisterWriter allocates ids in, and appends to, the current register.
type RegisterWriter interface {
	MaxIDs(ctx context.Context) (maxID, maxCase int64, err error)
	InsertRows(ctx context.Context, rows []models.Row) error
}

// Migrator copies people from the legacy register into the current one as
// undispatched records.
type Migrator struct {
	legacy   LegacySource
	register RegisterWriter
}

// NewMigrator creates a Migrator.
func NewMigrator(legacy LegacySource, register RegisterWriter) *Migrator {
	return &Migrator{legacy: legacy, register: register}
}

// Migrate copies legacy ids [from, to] and returns the inserted rows.
func (m *Migrator) Migrate(ctx context.Context, from, to int64) ([]models.Row, error) {
	if from <= 0 || to < from {
		return nil, fmt.Errorf("invalid legacy id range %d-%d", from, to)
	}
	logCtx := slog.With("legacyFrom", from, "legacyTo", to)

	legacy, err := m.legacy.ListRows(ctx, from, to)
	if err != nil {
		return nil, &ExternalToolError{Tool: "database", Err: err}
	}
	maxID, maxCase, err := m.register.MaxIDs(ctx)
	if err != nil {
		return nil, &ExternalToolError{Tool: "database", Err: err}
	}

	rows := planMigration(legacy, maxID, maxCase)
	if err := m.register.InsertRows(ctx, rows); err != nil {
		return nil, &ExternalToolError{Tool: "database", Err: err}
	}
	logCtx.Info("Migrated legacy records.", "read", len(legacy), "inserted", len(rows))
	return rows, nil
}

// planMigration numbers legacy rows after the current maxima. Nameless rows
// are dropped; a run of them between named rows starts a new case.
func planMigration(legacy []models.LegacyRow, maxID, maxCase int64) []models.Row {
	var (
		rows      []models.Row
		id        = maxID
		caseID    = maxCase + 1
		separated bool
	)
	for _, l := range legacy {
		name := strings.TrimSpace(l.Name.String)
		if !l.Name.Valid || name == "" {
			separated = true
			continue
		}
		if separated && len(rows) > 0 {
			caseID++
		}
		separated = false
		id++
		rows = append(rows, models.Row{ID: id, CaseID: caseID, Name: name})
	}
	return rows
}
