package services

import "github.com/Lllllllleong/noticeflow/internal/models"

// recordsPerPage is how many people one notice page holds.
const recordsPerPage = 2

// GroupCases partitions rows by case id. Cases come out in order of first
// appearance and rows keep their order within a case.
func GroupCases(rows []models.Row) []models.Case {
	index := make(map[int64]int)
	var cases []models.Case
	for _, row := range rows {
		i, ok := index[row.CaseID]
		if !ok {
			i = len(cases)
			index[row.CaseID] = i
			cases = append(cases, models.Case{ID: row.CaseID})
		}
		cases[i].Rows = append(cases[i].Rows, row)
	}
	return cases
}

// PairRecords cuts records into consecutive pages of at most two records.
// The last page has no second record when the count is odd.
func PairRecords(records []models.NormalizedRecord) []models.RecordPage {
	pages := make([]models.RecordPage, 0, (len(records)+recordsPerPage-1)/recordsPerPage)
	for i := 0; i < len(records); i += recordsPerPage {
		page := models.RecordPage{First: records[i]}
		if i+1 < len(records) {
			second := records[i+1]
			page.Second = &second
		}
		pages = append(pages, page)
	}
	return pages
}
