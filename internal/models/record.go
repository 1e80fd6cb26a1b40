package models

import (
	"database/sql"
)

// Column names of the print view. They double as field names in
// MissingFieldError so that an operator can find the blank cell.
const (
	ColID            = "識別碼"
	ColCaseID        = "案件編號"
	ColName          = "姓名"
	ColNationalID    = "身分證字號"
	ColUnit          = "單位"
	ColUnitCode      = "單位代碼"
	ColJobTitle      = "職稱"
	ColJobTitleCode  = "職稱代碼"
	ColRank          = "官等"
	ColResult        = "結果"
	ColResultCode    = "結果代碼"
	ColSubject       = "事由"
	ColSubjectCode   = "事由代碼"
	ColStatute       = "法令"
	ColArticle       = "條"
	ColClause        = "款"
	ColIssuingUnit   = "發文單位"
	ColIssueDate     = "發文日期"
	ColDocSerial     = "發文號"
	ColExplUnit      = "說明單位"
	ColExplDate      = "說明日期"
	ColExplDocNumber = "說明文件號"
	ColExplDocument  = "說明文件"
)

// Row is one record of the print view as read from the database.
type Row struct {
	ID            int64
	CaseID        int64
	Name          string
	NationalID    string
	Unit          string
	UnitCode      string
	JobTitle      string
	JobTitleCode  string
	Rank          string
	Result        string
	ResultCode    string
	Subject       string
	SubjectCode   string
	Statute       string
	Article       string
	Clause        string
	IssuingUnit   string
	IssueDate     sql.NullTime
	DocSerial     int64 // 0 while the dispatch number is unassigned
	ExplUnit      string
	ExplDate      sql.NullTime
	ExplDocNumber string
	ExplDocument  string
}

// Dispatched reports whether the row carries both a dispatch serial and an issue date.
func (r Row) Dispatched() bool {
	return r.DocSerial > 0 && r.IssueDate.Valid
}

// NormalizedRecord holds the document-ready strings derived from a Row.
type NormalizedRecord struct {
	Row Row

	IssueYear   int // ROC calendar
	DocDate     string
	DocSerial   string
	DocNumber   string
	ArchiveCode string
	ArchiveYear string

	Title    string
	Position string
	Result   string
	Subject  string
	Rule     string
	Other    string
	Note     string
}

// Name is the person the record is about.
func (r NormalizedRecord) Name() string { return r.Row.Name }

// Team is the unit the person is posted to.
func (r NormalizedRecord) Team() string { return r.Row.Unit }

// Case is the set of rows sharing one case id, in record id order.
type Case struct {
	ID   int64
	Rows []Row
}

// RecordPage is one physical page: one or two records.
type RecordPage struct {
	First  NormalizedRecord
	Second *NormalizedRecord
}

// Records returns the page's records in layout order.
func (p RecordPage) Records() []NormalizedRecord {
	if p.Second == nil {
		return []NormalizedRecord{p.First}
	}
	return []NormalizedRecord{p.First, *p.Second}
}

// LegacyRow is a row of the old register that the migrate command copies.
type LegacyRow struct {
	ID   int64
	Name sql.NullString
}
