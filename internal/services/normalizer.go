package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

const (
	docNumberPrefix  = "保七三大人字第"
	archiveUnitCode  = "020411"
	archiveRetention = "3"
	otherMatters     = "其他事項：※"
	// draftSerialBlank replaces the seven serial digits until a number is issued.
	draftSerialBlank = "　　　　　　　"
)

// Normalizer derives the document-ready strings of a record.
// now is consulted only for rows without an issue date.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a Normalizer. A nil now uses time.Now.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

type requiredField struct {
	name  string
	value string
}

// Normalize builds the NormalizedRecord of row. It fails with a
// *MissingFieldError when a field used by a sentence template is empty.
func (n *Normalizer) Normalize(row models.Row) (models.NormalizedRecord, error) {
	for _, f := range []requiredField{
		{models.ColName, row.Name},
		{models.ColNationalID, row.NationalID},
		{models.ColUnit, row.Unit},
		{models.ColUnitCode, row.UnitCode},
		{models.ColJobTitle, row.JobTitle},
		{models.ColJobTitleCode, row.JobTitleCode},
		{models.ColRank, row.Rank},
		{models.ColResult, row.Result},
		{models.ColResultCode, row.ResultCode},
		{models.ColSubject, row.Subject},
		{models.ColSubjectCode, row.SubjectCode},
		{models.ColStatute, row.Statute},
		{models.ColArticle, row.Article},
	} {
		if strings.TrimSpace(f.value) == "" {
			return models.NormalizedRecord{}, &MissingFieldError{RecordID: row.ID, CaseID: row.CaseID, Field: f.name}
		}
	}

	now := n.now()
	issueYear := now.Year()
	if row.IssueDate.Valid {
		issueYear = row.IssueDate.Time.Year()
	}
	rocYear := ROCYear(issueYear)

	serial := draftSerialBlank
	if row.DocSerial > 0 {
		serial = fmt.Sprintf("%07d", row.DocSerial)
	}

	rule := fmt.Sprintf("法令依據：%s第%s條", row.Statute, row.Article)
	if row.Clause != "" {
		rule += fmt.Sprintf("第%s款", row.Clause)
	}
	rule += "。"
	position := fmt.Sprintf("現職：%s（%s），%s（%s），%s。",
		row.Unit, row.UnitCode, row.JobTitle, row.JobTitleCode, row.Rank)

	return models.NormalizedRecord{
		Row:         row,
		IssueYear:   rocYear,
		DocDate:     "中華民國" + ROCDateOf(row.IssueDate, now),
		DocSerial:   serial,
		DocNumber:   fmt.Sprintf("%s%d%s號", docNumberPrefix, rocYear, serial),
		ArchiveCode: fmt.Sprintf("%d/%s", rocYear, archiveUnitCode),
		ArchiveYear: archiveRetention,
		Title:       fmt.Sprintf("%s（%s）", row.Name, row.NationalID),
		Position:    position,
		Result:      fmt.Sprintf("獎懲：%s（%s）。", row.Result, row.ResultCode),
		Subject:     fmt.Sprintf("獎懲事由：%s（%s）。", row.Subject, row.SubjectCode),
		Rule:        rule,
		Other:       otherMatters,
		Note:        n.note(row, now),
	}, nil
}

// note cites the document the decision was based on, if any was recorded.
func (n *Normalizer) note(row models.Row, now time.Time) string {
	if row.ExplUnit == "" && row.ExplDocument == "" {
		return ""
	}
	return fmt.Sprintf("依據%s中華民國%s%s%s辦理",
		row.ExplUnit, ROCDateOf(row.ExplDate, now), row.ExplDocNumber, row.ExplDocument)
}

// NormalizeCase normalizes every row of c in order.
func (n *Normalizer) NormalizeCase(c models.Case) ([]models.NormalizedRecord, error) {
	out := make([]models.NormalizedRecord, 0, len(c.Rows))
	for _, row := range c.Rows {
		rec, err := n.Normalize(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ValidateDispatch fails with *InvalidDispatchStateError when rec cannot be
// sent out formally yet.
func ValidateDispatch(rec models.NormalizedRecord) error {
	var missing []string
	if rec.Row.DocSerial <= 0 {
		missing = append(missing, models.ColDocSerial)
	}
	if !rec.Row.IssueDate.Valid {
		missing = append(missing, models.ColIssueDate)
	}
	if len(missing) > 0 {
		return &InvalidDispatchStateError{RecordID: rec.Row.ID, CaseID: rec.Row.CaseID, Missing: missing}
	}
	return nil
}
