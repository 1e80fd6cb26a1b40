package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

// CaseRange limits a query to case ids in [From, To]. Zero leaves a side open.
type CaseRange struct {
	From int64
	To   int64
}

// viewColumns is the fixed column set of the print view, in scan order.
var viewColumns = []string{
	models.ColID, models.ColCaseID, models.ColName, models.ColNationalID,
	models.ColUnit, models.ColUnitCode, models.ColJobTitle, models.ColJobTitleCode,
	models.ColRank, models.ColResult, models.ColResultCode, models.ColSubject,
	models.ColSubjectCode, models.ColStatute, models.ColArticle, models.ColClause,
	models.ColIssuingUnit, models.ColIssueDate, models.ColDocSerial, models.ColExplUnit,
	models.ColExplDate, models.ColExplDocNumber, models.ColExplDocument,
}

// RecordStore reads the print view and writes the register.
type RecordStore struct {
	db       *sql.DB
	driver   string
	view     string
	register string
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *sql.DB, driver, view, register string) *RecordStore {
	return &RecordStore{db: db, driver: driver, view: view, register: register}
}

// ListRows returns the rows of the print view within r, ordered by case id
// and then record id so that grouping never depends on storage order.
func (s *RecordStore) ListRows(ctx context.Context, r CaseRange) ([]models.Row, error) {
	var (
		where []string
		args  []any
	)
	if r.From > 0 {
		where = append(where, models.ColCaseID+" >= "+placeholders(s.driver, len(args)+1, 1)[0])
		args = append(args, r.From)
	}
	if r.To > 0 {
		where = append(where, models.ColCaseID+" <= "+placeholders(s.driver, len(args)+1, 1)[0])
		args = append(args, r.To)
	}

	query := "SELECT " + strings.Join(viewColumns, ", ") + " FROM " + quoteIdent(s.view)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + models.ColCaseID + ", " + models.ColID

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.view, err)
	}
	defer rows.Close()

	var out []models.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.view, err)
	}
	return out, nil
}

func scanRow(rows *sql.Rows) (models.Row, error) {
	var (
		r         models.Row
		text      [18]sql.NullString
		serial    sql.NullInt64
		issueDate any
		explDate  any
	)
	err := rows.Scan(
		&r.ID, &r.CaseID,
		&text[0], &text[1], &text[2], &text[3], &text[4], &text[5], &text[6],
		&text[7], &text[8], &text[9], &text[10], &text[11], &text[12], &text[13],
		&text[14], &issueDate, &serial, &text[15], &explDate, &text[16], &text[17],
	)
	if err != nil {
		return r, fmt.Errorf("failed to scan record: %w", err)
	}

	r.Name = text[0].String
	r.NationalID = text[1].String
	r.Unit = text[2].String
	r.UnitCode = text[3].String
	r.JobTitle = text[4].String
	r.JobTitleCode = text[5].String
	r.Rank = text[6].String
	r.Result = text[7].String
	r.ResultCode = text[8].String
	r.Subject = text[9].String
	r.SubjectCode = text[10].String
	r.Statute = text[11].String
	r.Article = text[12].String
	r.Clause = text[13].String
	r.IssuingUnit = text[14].String
	r.DocSerial = serial.Int64
	r.ExplUnit = text[15].String
	r.ExplDocNumber = text[16].String
	r.ExplDocument = text[17].String

	if r.IssueDate, err = parseDate(issueDate); err != nil {
		return r, fmt.Errorf("record %d: %s: %w", r.ID, models.ColIssueDate, err)
	}
	if r.ExplDate, err = parseDate(explDate); err != nil {
		return r, fmt.Errorf("record %d: %s: %w", r.ID, models.ColExplDate, err)
	}
	return r, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// parseDate accepts what either driver hands back for a date column:
// time.Time from lib/pq, text from SQLite.
func parseDate(v any) (sql.NullTime, error) {
	var s string
	switch t := v.(type) {
	case nil:
		return sql.NullTime{}, nil
	case time.Time:
		return sql.NullTime{Time: t, Valid: true}, nil
	case []byte:
		s = string(t)
	case string:
		s = t
	default:
		return sql.NullTime{}, fmt.Errorf("unexpected date value of type %T", v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullTime{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: t, Valid: true}, nil
		}
	}
	return sql.NullTime{}, fmt.Errorf("unrecognised date %q", s)
}

// MaxIDs returns the largest record id and case id in the register.
func (s *RecordStore) MaxIDs(ctx context.Context) (maxID, maxCase int64, err error) {
	query := "SELECT COALESCE(MAX(" + models.ColID + "), 0), COALESCE(MAX(" + models.ColCaseID + "), 0) FROM " + quoteIdent(s.register)
	if err := s.db.QueryRowContext(ctx, query).Scan(&maxID, &maxCase); err != nil {
		return 0, 0, fmt.Errorf("failed to read max ids from %s: %w", s.register, err)
	}
	return maxID, maxCase, nil
}

// InsertRows writes migrated rows into the register in one transaction.
// Dispatch and explanatory fields are left empty for later data entry.
func (s *RecordStore) InsertRows(ctx context.Context, rows []models.Row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES (%s)",
		quoteIdent(s.register), models.ColID, models.ColCaseID, models.ColName,
		strings.Join(placeholders(s.driver, 1, 3), ", "))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", s.register, err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.ID, r.CaseID, r.Name); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrated records: %w", err)
	}
	return nil
}
