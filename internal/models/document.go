package models

import "time"

// Run statuses recorded in the dispatch ledger.
const (
	RunStatusGenerating = "GENERATING"
	RunStatusGenerated  = "GENERATED"
	RunStatusFailed     = "FAILED"
)

// DispatchRun is the ledger record of one generation run in Firestore.
// It tracks the overall status and what the run produced.
type DispatchRun struct {
	RunID         string    `firestore:"runId,omitempty"`
	Format        string    `firestore:"format,omitempty"`
	CaseFrom      int64     `firestore:"caseFrom,omitempty"`
	CaseTo        int64     `firestore:"caseTo,omitempty"`
	Status        string    `firestore:"status,omitempty"`
	ErrorDetails  string    `firestore:"errorDetails,omitempty"`
	DocumentCount int       `firestore:"documentCount,omitempty"`
	Packets       []Packet  `firestore:"packets,omitempty"`
	ExecutionID   string    `firestore:"executionId,omitempty"` // For traceability
	CreatedAt     time.Time `firestore:"createdAt,omitempty"`
}

// Packet is one combined, duplex-ready PDF produced by a run.
type Packet struct {
	Name   string `firestore:"name" json:"name"`
	Path   string `firestore:"path" json:"-"` // local to the machine that built it
	Pages  int    `firestore:"pages" json:"pages"`
	SHA256 string `firestore:"sha256,omitempty" json:"sha256,omitempty"`
	GCSUri string `firestore:"gcsUri,omitempty" json:"gcsUri,omitempty"`
}
