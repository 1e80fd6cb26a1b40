package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

func TestLegacyListRowsKeepsSeparators(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`INSERT INTO 舊獎懲登記 (識別碼, 姓名) VALUES (1, '陳志強'), (2, NULL), (3, '林大華'), (4, '王小明')`)
	require.NoError(t, err)

	s := NewLegacyStore(db, "sqlite", "舊獎懲登記")
	rows, err := s.ListRows(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "陳志強", rows[0].Name.String)
	assert.False(t, rows[1].Name.Valid)
	assert.Equal(t, int64(3), rows[2].ID)
}

func TestInsertRowsRoundTripsThroughView(t *testing.T) {
	db := newTestDB(t)
	s := NewRecordStore(db, "sqlite", "列印查詢", "獎懲登記")
	ctx := context.Background()

	err := s.InsertRows(ctx, []models.Row{
		{ID: 1, CaseID: 7, Name: "陳志強"},
		{ID: 2, CaseID: 8, Name: "林大華"},
	})
	require.NoError(t, err)

	rows, err := s.ListRows(ctx, CaseRange{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(8), rows[1].CaseID)
	assert.Empty(t, rows[1].Unit)
	assert.False(t, rows[1].IssueDate.Valid)
}
