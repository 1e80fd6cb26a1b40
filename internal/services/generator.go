package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Lllllllleong/noticeflow/internal/models"
	"github.com/Lllllllleong/noticeflow/internal/store"
)

// RowSource reads register rows for a case range.
type RowSource interface {
	ListRows(ctx context.Context, r store.CaseRange) ([]models.Row, error)
}

// DocumentConverter turns merged documents into PDFs.
type DocumentConverter interface {
	ConvertFiles(ctx context.Context, docs []string) ([]string, error)
}

// GeneratorConfig holds configuration for a generation run.
type GeneratorConfig struct {
	OutputDir      string
	Issuer         string
	DraftTemplate  string
	FormalTemplate string
	// DefaultFormat applies when a request names none.
	DefaultFormat models.Format
	// KeepSources keeps per-document PDFs after packets are built.
	KeepSources bool
}

// Generator runs the whole pipeline for one request: read rows, merge
// documents, convert them, build packets and archive them, keeping the
// ledger up to date along the way.
type Generator struct {
	rows      RowSource
	engine    MergeEngine
	converter DocumentConverter
	archiver  *Archiver
	ledger    Ledger
	now       func() time.Time
	newRunID  func() string
	config    GeneratorConfig
}

// NewGenerator creates a Generator. A nil converter stops the run after the
// documents are merged; a nil archiver keeps packets local.
func NewGenerator(rows RowSource, engine MergeEngine, converter DocumentConverter, archiver *Archiver, ledger Ledger, config GeneratorConfig) *Generator {
	if ledger == nil {
		ledger = LogLedger{}
	}
	return &Generator{
		rows:      rows,
		engine:    engine,
		converter: converter,
		archiver:  archiver,
		ledger:    ledger,
		now:       time.Now,
		newRunID:  uuid.NewString,
		config:    config,
	}
}

// Process executes one generation run.
func (g *Generator) Process(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error) {
	format := g.config.DefaultFormat
	if req.Format != "" {
		f, err := models.ParseFormat(req.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		format = f
	}
	if req.CaseFrom < 0 || req.CaseTo < 0 || (req.CaseTo != 0 && req.CaseFrom > req.CaseTo) {
		return nil, fmt.Errorf("%w: case range %d-%d", ErrInvalidRequest, req.CaseFrom, req.CaseTo)
	}

	runID := g.newRunID()
	logCtx := slog.With("runId", runID, "format", format, "caseFrom", req.CaseFrom, "caseTo", req.CaseTo)
	if req.ExecutionID != "" {
		logCtx = logCtx.With("executionId", req.ExecutionID)
	}
	logCtx.Info("Processing generation request.")

	run := models.DispatchRun{
		RunID:       runID,
		Format:      string(format),
		CaseFrom:    req.CaseFrom,
		CaseTo:      req.CaseTo,
		ExecutionID: req.ExecutionID,
		CreatedAt:   g.now().UTC(),
	}
	if err := g.ledger.Begin(ctx, run); err != nil {
		logCtx.Error("Failed to create ledger entry", "error", err)
		return nil, err
	}

	rows, err := g.rows.ListRows(ctx, store.CaseRange{From: req.CaseFrom, To: req.CaseTo})
	if err != nil {
		return nil, g.handleError(ctx, logCtx, runID, "failed to read records", &ExternalToolError{Tool: "database", Err: err})
	}

	assembler := NewDocumentAssembler(g.engine, NewNormalizer(g.now), NewFieldMapper(g.config.Issuer), AssemblerConfig{
		OutputDir: g.config.OutputDir,
		Template:  g.template(format),
		Format:    format,
	})
	result, err := assembler.Assemble(ctx, rows)
	if err != nil {
		return nil, g.handleError(ctx, logCtx, runID, "failed to assemble documents", err)
	}

	resp := &models.GenerateResponse{
		Status:        models.RunStatusGenerated,
		RunID:         runID,
		DocumentCount: len(result.Documents),
	}
	if g.converter != nil && len(result.Documents) > 0 {
		packets, err := g.buildPackets(ctx, logCtx, runID, result)
		if err != nil {
			return nil, err
		}
		resp.Packets = packets
	}

	if err := g.ledger.Complete(ctx, runID, resp.DocumentCount, resp.Packets); err != nil {
		logCtx.Error("Failed to complete ledger entry", "error", err)
		return nil, err
	}
	logCtx.Info("Generation run finished.", "documentCount", resp.DocumentCount, "packetCount", len(resp.Packets))
	return resp, nil
}

func (g *Generator) buildPackets(ctx context.Context, logCtx *slog.Logger, runID string, result *AssemblyResult) ([]models.Packet, error) {
	docs := make([]string, len(result.Documents))
	for i, doc := range result.Documents {
		docs[i] = doc.Path
	}
	if _, err := g.converter.ConvertFiles(ctx, docs); err != nil {
		return nil, g.handleError(ctx, logCtx, runID, "failed to convert documents", err)
	}

	builder := NewPacketBuilder(g.config.OutputDir, g.config.KeepSources)
	packets, err := builder.Build(ctx, PlanPackets(result))
	if err != nil {
		return nil, g.handleError(ctx, logCtx, runID, "failed to build packets", err)
	}

	if g.archiver == nil {
		return packets, nil
	}
	archived, err := g.archiver.Archive(ctx, runID, packets)
	if err != nil {
		return nil, g.handleError(ctx, logCtx, runID, "failed to archive packets", err)
	}
	return archived, nil
}

func (g *Generator) template(format models.Format) string {
	if format == models.FormatFormal {
		return g.config.FormalTemplate
	}
	return g.config.DraftTemplate
}

func (g *Generator) handleError(ctx context.Context, logCtx *slog.Logger, runID, message string, originalErr error) error {
	logCtx.Error(message, "error", originalErr)
	if err := g.ledger.Fail(ctx, runID, fmt.Sprintf("%s: %v", message, originalErr)); err != nil {
		logCtx.Error("CRITICAL: Failed to mark run as FAILED after a processing error.", "updateError", err)
	}
	return fmt.Errorf("%s: %w", message, originalErr)
}
