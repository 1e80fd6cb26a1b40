package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

func TestGroupCasesKeepsEncounterOrder(t *testing.T) {
	rows := []models.Row{
		{ID: 1, CaseID: 1002},
		{ID: 2, CaseID: 1001},
		{ID: 3, CaseID: 1002},
		{ID: 4, CaseID: 1003},
		{ID: 5, CaseID: 1001},
	}
	cases := GroupCases(rows)
	require.Len(t, cases, 3)

	assert.Equal(t, int64(1002), cases[0].ID)
	assert.Equal(t, int64(1001), cases[1].ID)
	assert.Equal(t, int64(1003), cases[2].ID)

	ids := func(c models.Case) []int64 {
		var out []int64
		for _, r := range c.Rows {
			out = append(out, r.ID)
		}
		return out
	}
	assert.Equal(t, []int64{1, 3}, ids(cases[0]))
	assert.Equal(t, []int64{2, 5}, ids(cases[1]))
	assert.Equal(t, []int64{4}, ids(cases[2]))
}

func TestGroupCasesEmpty(t *testing.T) {
	assert.Empty(t, GroupCases(nil))
}

func TestPairRecords(t *testing.T) {
	for n := 0; n <= 7; n++ {
		records := make([]models.NormalizedRecord, n)
		for i := range records {
			records[i].Row.ID = int64(i + 1)
		}

		pages := PairRecords(records)
		require.Len(t, pages, (n+1)/2, "n=%d", n)

		var order []int64
		for i, p := range pages {
			recs := p.Records()
			assert.LessOrEqual(t, len(recs), 2)
			if i < len(pages)-1 {
				assert.NotNil(t, p.Second, "only the last page may be short")
			}
			for _, r := range recs {
				order = append(order, r.Row.ID)
			}
		}
		for i, id := range order {
			assert.Equal(t, int64(i+1), id, "record order preserved (n=%d)", n)
		}
		if n%2 == 1 {
			assert.Nil(t, pages[len(pages)-1].Second)
		}
	}
}

func TestPairRecordsDoesNotAlias(t *testing.T) {
	records := []models.NormalizedRecord{{Title: "a"}, {Title: "b"}}
	pages := PairRecords(records)
	records[1].Title = "changed"
	assert.Equal(t, "b", pages[0].Second.Title)
}
