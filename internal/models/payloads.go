package models

// These structs define the JSON payloads of the notice-generator HTTP function.

// GenerateRequest asks for one generation run over a case range.
// A zero CaseFrom/CaseTo leaves that end of the range open.
type GenerateRequest struct {
	CaseFrom    int64  `json:"caseFrom"`
	CaseTo      int64  `json:"caseTo"`
	Format      string `json:"format"`
	ExecutionID string `json:"executionId"`
}

// GenerateResponse is the output of a generation run.
type GenerateResponse struct {
	Status        string   `json:"status"`
	RunID         string   `json:"runId"`
	DocumentCount int      `json:"documentCount"`
	Packets       []Packet `json:"packets"`
}
