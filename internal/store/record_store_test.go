package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE 獎懲登記 (
	識別碼 INTEGER PRIMARY KEY,
	案件編號 INTEGER NOT NULL,
	姓名 TEXT,
	身分證字號 TEXT,
	單位 TEXT,
	單位代碼 TEXT,
	職稱 TEXT,
	職稱代碼 TEXT,
	官等 TEXT,
	結果 TEXT,
	結果代碼 TEXT,
	事由 TEXT,
	事由代碼 TEXT,
	法令 TEXT,
	條 TEXT,
	款 TEXT,
	發文單位 TEXT,
	發文日期 TEXT,
	發文號 INTEGER,
	說明單位 TEXT,
	說明日期 TEXT,
	說明文件號 TEXT,
	說明文件 TEXT
);
CREATE VIEW 列印查詢 AS SELECT * FROM 獎懲登記;
CREATE TABLE 舊獎懲登記 (識別碼 INTEGER PRIMARY KEY, 姓名 TEXT);
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := NewDB(ctx, "sqlite", filepath.Join(t.TempDir(), "register.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.ExecContext(ctx, testSchema)
	require.NoError(t, err)
	return db
}

func insertRecord(t *testing.T, db *sql.DB, id, caseID int64, name, issueDate string, serial int64) {
	t.Helper()
	var date any
	if issueDate != "" {
		date = issueDate
	}
	_, err := db.Exec(`INSERT INTO 獎懲登記 (識別碼, 案件編號, 姓名, 身分證字號, 單位, 單位代碼, 職稱, 職稱代碼, 官等,
		結果, 結果代碼, 事由, 事由代碼, 法令, 條, 款, 發文單位, 發文日期, 發文號, 說明單位, 說明日期, 說明文件號, 說明文件)
		VALUES (?, ?, ?, 'A123456789', '第一中隊', '1A01', '警員', '0301', '警佐四階', '嘉獎一次', '21',
		'執行專案勤務績效良好', '0712', '警察人員獎懲標準', '4', '1', '保七總隊三大隊', ?, ?, '保七總隊', '2017-01-03', NULL, '函')`,
		id, caseID, name, date, serial)
	require.NoError(t, err)
}

func TestListRowsOrdersAndFilters(t *testing.T) {
	db := newTestDB(t)
	insertRecord(t, db, 5, 1002, "王小明", "2017-01-05", 12)
	insertRecord(t, db, 2, 1001, "林大華", "", 0)
	insertRecord(t, db, 1, 1001, "陳志強", "2017-01-05", 11)
	insertRecord(t, db, 9, 1003, "張三", "2017-01-05", 13)

	s := NewRecordStore(db, "sqlite", "列印查詢", "獎懲登記")
	rows, err := s.ListRows(context.Background(), CaseRange{From: 1001, To: 1002})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []int64{1, 2, 5}, []int64{rows[0].ID, rows[1].ID, rows[2].ID})
	assert.Equal(t, int64(1001), rows[0].CaseID)
	assert.Equal(t, "陳志強", rows[0].Name)
	assert.Equal(t, "1A01", rows[0].UnitCode)
	assert.Equal(t, "1", rows[0].Clause)
	assert.Equal(t, int64(11), rows[0].DocSerial)
	require.True(t, rows[0].IssueDate.Valid)
	assert.Equal(t, time.Date(2017, 1, 5, 0, 0, 0, 0, time.UTC), rows[0].IssueDate.Time.UTC())
	assert.True(t, rows[0].ExplDate.Valid)
	assert.Empty(t, rows[0].ExplDocNumber)

	assert.False(t, rows[1].IssueDate.Valid)
	assert.Zero(t, rows[1].DocSerial)
	assert.False(t, rows[1].Dispatched())
}

func TestListRowsOpenRange(t *testing.T) {
	db := newTestDB(t)
	insertRecord(t, db, 1, 1001, "陳志強", "", 0)
	insertRecord(t, db, 2, 1002, "林大華", "", 0)

	s := NewRecordStore(db, "sqlite", "列印查詢", "獎懲登記")
	rows, err := s.ListRows(context.Background(), CaseRange{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = s.ListRows(context.Background(), CaseRange{From: 1002})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "林大華", rows[0].Name)
}

func TestMaxIDsAndInsertRows(t *testing.T) {
	db := newTestDB(t)
	s := NewRecordStore(db, "sqlite", "列印查詢", "獎懲登記")
	ctx := context.Background()

	maxID, maxCase, err := s.MaxIDs(ctx)
	require.NoError(t, err)
	assert.Zero(t, maxID)
	assert.Zero(t, maxCase)

	insertRecord(t, db, 40, 1010, "陳志強", "", 0)
	maxID, maxCase, err = s.MaxIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(40), maxID)
	assert.Equal(t, int64(1010), maxCase)
}

func TestParseDate(t *testing.T) {
	for _, in := range []any{"2017-01-05", "2017-01-05 00:00:00", "2017/01/05", []byte("2017-01-05T00:00:00Z"), time.Date(2017, 1, 5, 0, 0, 0, 0, time.UTC)} {
		got, err := parseDate(in)
		require.NoError(t, err, "%v", in)
		require.True(t, got.Valid)
		assert.Equal(t, 2017, got.Time.Year())
		assert.Equal(t, time.January, got.Time.Month())
		assert.Equal(t, 5, got.Time.Day())
	}

	got, err := parseDate(nil)
	require.NoError(t, err)
	assert.False(t, got.Valid)

	got, err = parseDate("  ")
	require.NoError(t, err)
	assert.False(t, got.Valid)

	_, err = parseDate("yesterday")
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"$3", "$4"}, placeholders("postgres", 3, 2))
	assert.Equal(t, []string{"?", "?"}, placeholders("sqlite", 3, 2))
}

func TestNewDBRejectsUnknownDriver(t *testing.T) {
	_, err := NewDB(context.Background(), "access", "register.accdb")
	assert.ErrorContains(t, err, "unsupported")
}
