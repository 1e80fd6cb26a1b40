package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/Lllllllleong/noticeflow/internal/gcp"
	"github.com/Lllllllleong/noticeflow/internal/models"
)

// Ledger records the lifecycle of generation runs.
type Ledger interface {
	Begin(ctx context.Context, run models.DispatchRun) error
	Complete(ctx context.Context, runID string, documentCount int, packets []models.Packet) error
	Fail(ctx context.Context, runID, details string) error
}

// FirestoreLedger keeps one DispatchRun document per run.
type FirestoreLedger struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreLedger creates a ledger writing to collection.
func NewFirestoreLedger(client *firestore.Client, collection string) *FirestoreLedger {
	return &FirestoreLedger{client: client, collection: collection}
}

func (l *FirestoreLedger) Begin(ctx context.Context, run models.DispatchRun) error {
	run.Status = models.RunStatusGenerating
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if _, err := gcp.RunDoc(l.client, l.collection, run.RunID).Create(ctx, run); err != nil {
		return fmt.Errorf("failed to create ledger entry for run %s: %w", run.RunID, err)
	}
	return nil
}

func (l *FirestoreLedger) Complete(ctx context.Context, runID string, documentCount int, packets []models.Packet) error {
	return l.update(ctx, runID, []firestore.Update{
		{Path: "status", Value: models.RunStatusGenerated},
		{Path: "documentCount", Value: documentCount},
		{Path: "packets", Value: packets},
	})
}

func (l *FirestoreLedger) Fail(ctx context.Context, runID, details string) error {
	return l.update(ctx, runID, []firestore.Update{
		{Path: "status", Value: models.RunStatusFailed},
		{Path: "errorDetails", Value: details},
	})
}

func (l *FirestoreLedger) update(ctx context.Context, runID string, updates []firestore.Update) error {
	if _, err := gcp.RunDoc(l.client, l.collection, runID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update ledger entry for run %s: %w", runID, err)
	}
	return nil
}

// LogLedger is used when no project is configured; it only logs.
type LogLedger struct{}

func (LogLedger) Begin(_ context.Context, run models.DispatchRun) error {
	slog.Info("Run started.", "runId", run.RunID, "format", run.Format, "caseFrom", run.CaseFrom, "caseTo", run.CaseTo)
	return nil
}

func (LogLedger) Complete(_ context.Context, runID string, documentCount int, packets []models.Packet) error {
	slog.Info("Run finished.", "runId", runID, "documentCount", documentCount, "packetCount", len(packets))
	return nil
}

func (LogLedger) Fail(_ context.Context, runID, details string) error {
	slog.Warn("Run failed.", "runId", runID, "errorDetails", details)
	return nil
}
