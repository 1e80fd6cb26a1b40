package services

import (
	"fmt"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

// Merge field names bound in the notice templates.
const (
	FieldName        = "FIELD_0"
	FieldBlock       = "FIELD_10"
	FieldBlockText   = "FIELD_11"
	FieldFirstItems  = "FIELD_20"
	FieldFirstText   = "FIELD_21"
	FieldSecondTitle = "FIELD_30"
	FieldSecondText  = "FIELD_31"
	FieldSecondItems = "FIELD_40"
	FieldSecondItem  = "FIELD_41"

	FieldArchiveCode    = "ARCHIVE_CODE"
	FieldArchiveYear    = "ARCHIVE_YEAR"
	FieldHeader         = "HEADER"
	FieldDocSerial      = "DOC_SERIAL"
	FieldDraft          = "DRAFT"
	FieldDocDate        = "DOC_DATE"
	FieldDocNumber      = "DOC_NUMBER"
	FieldRecipient      = "RECIPIENT"
	FieldRepresentation = "REPRESENTATION"
	FieldNote           = "NOTE"
	FieldNumPage        = "NUM_PAGE"
	FieldNumPages       = "NUM_PAGES"
	FieldNumPersons     = "NUM_PERSONS"
	FieldFooter         = "FOOTER_0"
)

const (
	draftRecipient = "如正本"
	draftMarker    = "稿"
)

var (
	topLevelMarks = []string{"一、", "二、", "三、", "四、", "五、"}
	subLevelMarks = []string{"(一)", "(二)", "(三)", "(四)", "(五)"}

	// approvalFooter is signed on the last page of a draft.
	approvalFooter = []string{"承辦人", "單位主管", "決行"}
)

// FieldMapper turns record pages into merge field mappings.
type FieldMapper struct {
	issuer string
}

// NewFieldMapper creates a FieldMapper; issuer heads every draft.
func NewFieldMapper(issuer string) *FieldMapper {
	return &FieldMapper{issuer: issuer}
}

// DraftMapping maps page pageNum of pageCount (1-based) for the approval draft.
func (m *FieldMapper) DraftMapping(page models.RecordPage, pageNum, pageCount int) (models.FieldMapping, error) {
	fm, err := m.pageMapping(page, pageNum, pageCount)
	if err != nil {
		return fm, err
	}
	first := page.First
	fm.Set(FieldArchiveCode, first.ArchiveCode)
	fm.Set(FieldArchiveYear, first.ArchiveYear)
	fm.Set(FieldHeader, m.issuer+"令")
	fm.Set(FieldDocSerial, first.DocSerial)
	fm.Set(FieldDraft, draftMarker)
	fm.Set(FieldRecipient, draftRecipient)

	var footer []models.FieldRow
	if pageNum == pageCount {
		for _, line := range approvalFooter {
			footer = append(footer, models.FieldRow{FieldFooter: line})
		}
	}
	fm.SetTable(FieldFooter, footer)
	return fm, nil
}

// FormalMappings maps a page for dispatch: one copy per distinct person on
// the page, then one per distinct team. Every record must carry its dispatch
// serial and issue date.
func (m *FieldMapper) FormalMappings(page models.RecordPage, pageNum, pageCount int) ([]models.AddressedMapping, error) {
	records := page.Records()
	for _, rec := range records {
		if err := ValidateDispatch(rec); err != nil {
			return nil, err
		}
	}

	base, err := m.pageMapping(page, pageNum, pageCount)
	if err != nil {
		return nil, err
	}
	base.SetTable(FieldFooter, nil)

	var keys []models.RecipientKey
	seen := make(map[models.RecipientKey]bool)
	add := func(k models.RecipientKey) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, rec := range records {
		add(models.RecipientKey{Kind: models.RecipientPerson, Name: rec.Name()})
	}
	for _, rec := range records {
		add(models.RecipientKey{Kind: models.RecipientTeam, Name: rec.Team()})
	}

	out := make([]models.AddressedMapping, 0, len(keys))
	for _, k := range keys {
		fm := base.Clone()
		fm.Set(FieldRecipient, k.Name)
		out = append(out, models.AddressedMapping{Key: k, Mapping: fm})
	}
	return out, nil
}

// pageMapping fills the fields shared by both formats.
func (m *FieldMapper) pageMapping(page models.RecordPage, pageNum, pageCount int) (models.FieldMapping, error) {
	if pageCount < 1 || pageNum < 1 || pageNum > pageCount {
		return models.FieldMapping{}, fmt.Errorf("page %d of %d is out of range", pageNum, pageCount)
	}

	fm := models.NewFieldMapping()
	first := page.First
	persons := 1

	if page.Second == nil {
		fm.SetTable(FieldName, []models.FieldRow{{FieldName: first.Name()}})
		fm.SetTable(FieldBlock, itemRows(first, topLevelMarks, FieldBlock, FieldBlockText))
		fm.SetTable(FieldFirstItems, nil)
		fm.SetTable(FieldSecondTitle, nil)
		fm.SetTable(FieldSecondItems, nil)
	} else {
		second := *page.Second
		if second.Name() != first.Name() {
			persons = 2
		}
		fm.SetTable(FieldName, nil)
		fm.SetTable(FieldBlock, []models.FieldRow{{FieldBlock: topLevelMarks[0], FieldBlockText: first.Title}})
		fm.SetTable(FieldFirstItems, itemRows(first, subLevelMarks, FieldFirstItems, FieldFirstText))
		fm.SetTable(FieldSecondTitle, []models.FieldRow{{FieldSecondTitle: topLevelMarks[1], FieldSecondText: second.Title}})
		fm.SetTable(FieldSecondItems, itemRows(second, subLevelMarks, FieldSecondItems, FieldSecondItem))
	}

	fm.Set(FieldRepresentation, representation(first.Name(), persons))
	fm.Set(FieldNumPersons, fmt.Sprint(persons))
	fm.Set(FieldDocDate, first.DocDate)
	fm.Set(FieldDocNumber, first.DocNumber)
	fm.Set(FieldNote, first.Note)
	fm.Set(FieldNumPage, fmt.Sprint(pageNum))
	fm.Set(FieldNumPages, fmt.Sprint(pageCount))
	return fm, nil
}

// itemRows lays out the five numbered statements of one record.
func itemRows(rec models.NormalizedRecord, marks []string, markKey, textKey string) []models.FieldRow {
	texts := []string{rec.Position, rec.Result, rec.Subject, rec.Rule, rec.Other}
	rows := make([]models.FieldRow, len(texts))
	for i, text := range texts {
		rows[i] = models.FieldRow{markKey: marks[i], textKey: text}
	}
	return rows
}

// representation names who the page is about, e.g. "陳志強等2員".
func representation(name string, persons int) string {
	if persons == 1 {
		return name + "1員"
	}
	return fmt.Sprintf("%s等%d員", name, persons)
}
