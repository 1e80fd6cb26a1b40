package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

// MergeEngine renders page mappings into a document built from a template.
type MergeEngine interface {
	Merge(ctx context.Context, templatePath string, pages []models.FieldMapping, outPath string) error
	Close() error
}

// mergeJob is the file handed to the mail-merge program.
type mergeJob struct {
	Template string                `json:"template"`
	Output   string                `json:"output"`
	Pages    []models.FieldMapping `json:"pages"`
}

// JobMerger writes every merge as a JSON job next to the target document and,
// when a command is configured, runs it to produce the document. Arguments
// may use {template}, {job} and {out}.
type JobMerger struct {
	command []string
}

// NewJobMerger creates a JobMerger. An empty command only writes job files.
func NewJobMerger(command []string) *JobMerger {
	return &JobMerger{command: command}
}

// JobPath is where the merge job for outPath is written.
func JobPath(outPath string) string {
	return strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".json"
}

func (m *JobMerger) Merge(ctx context.Context, templatePath string, pages []models.FieldMapping, outPath string) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to merge into %s", outPath)
	}
	job := mergeJob{Template: templatePath, Output: outPath, Pages: pages}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode merge job for %s: %w", outPath, err)
	}

	jobPath := JobPath(outPath)
	if err := os.WriteFile(jobPath, data, 0o644); err != nil {
		return &FilesystemError{Op: "write", Path: jobPath, Err: err}
	}
	if len(m.command) == 0 {
		return nil
	}

	argv := expandCommand(m.command, map[string]string{
		"template": templatePath,
		"job":      jobPath,
		"out":      outPath,
	})
	slog.Debug("Running merge command.", "argv", argv)
	if err := runCommand(ctx, "merge", argv); err != nil {
		return err
	}
	if _, err := os.Stat(outPath); err != nil {
		return &ExternalToolError{Tool: "merge", Err: fmt.Errorf("expected output %s: %w", outPath, err)}
	}
	return nil
}

// Close releases the engine. Jobs are self-contained so there is nothing to release.
func (m *JobMerger) Close() error { return nil }
