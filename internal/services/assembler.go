package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

const (
	documentExt   = ".docx"
	recipientsDir = "recipients"
	teamsDir      = "teams"
)

// AssemblerConfig holds configuration for the document assembler.
type AssemblerConfig struct {
	OutputDir string
	Template  string
	Format    models.Format
}

// GeneratedDocument is one document written by the merge engine.
type GeneratedDocument struct {
	Path string
	// CaseID is set for drafts.
	CaseID int64
	// Key is set for formal copies.
	Key   models.RecipientKey
	Pages int
	// Teams lists the units of the records in the document, in first-seen order.
	Teams []string
}

// AssemblyResult lists what one Assemble call wrote, in write order.
type AssemblyResult struct {
	Format    models.Format
	Documents []GeneratedDocument
}

// DocumentAssembler drives normalization, paging and mapping for a result
// set and hands each document to the merge engine.
type DocumentAssembler struct {
	engine     MergeEngine
	normalizer *Normalizer
	mapper     *FieldMapper
	config     AssemblerConfig
}

// NewDocumentAssembler creates a new DocumentAssembler.
func NewDocumentAssembler(engine MergeEngine, normalizer *Normalizer, mapper *FieldMapper, config AssemblerConfig) *DocumentAssembler {
	return &DocumentAssembler{
		engine:     engine,
		normalizer: normalizer,
		mapper:     mapper,
		config:     config,
	}
}

// Assemble writes the documents for rows in the configured format.
func (a *DocumentAssembler) Assemble(ctx context.Context, rows []models.Row) (*AssemblyResult, error) {
	if err := os.MkdirAll(a.config.OutputDir, 0o755); err != nil {
		return nil, &FilesystemError{Op: "create", Path: a.config.OutputDir, Err: err}
	}
	cases := GroupCases(rows)
	if len(cases) == 0 {
		slog.Warn("No records matched; nothing to generate.")
		return &AssemblyResult{Format: a.config.Format}, nil
	}
	slog.Info("Assembling documents.", "format", a.config.Format, "caseCount", len(cases), "recordCount", len(rows))

	switch a.config.Format {
	case models.FormatDraft:
		return a.assembleDrafts(ctx, cases)
	case models.FormatFormal:
		return a.assembleFormal(ctx, cases)
	}
	return nil, fmt.Errorf("unknown output format %q", a.config.Format)
}

func (a *DocumentAssembler) assembleDrafts(ctx context.Context, cases []models.Case) (*AssemblyResult, error) {
	result := &AssemblyResult{Format: models.FormatDraft}
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logCtx := slog.With("caseId", c.ID)

		records, err := a.normalizer.NormalizeCase(c)
		if err != nil {
			logCtx.Error("Failed to normalize case", "error", err)
			return result, fmt.Errorf("case %d: %w", c.ID, err)
		}
		pages := PairRecords(records)
		mappings := make([]models.FieldMapping, 0, len(pages))
		for i, page := range pages {
			fm, err := a.mapper.DraftMapping(page, i+1, len(pages))
			if err != nil {
				return result, fmt.Errorf("case %d: %w", c.ID, err)
			}
			mappings = append(mappings, fm)
		}

		path := filepath.Join(a.config.OutputDir, fmt.Sprintf("%d%s", c.ID, documentExt))
		if err := a.engine.Merge(ctx, a.config.Template, mappings, path); err != nil {
			logCtx.Error("Failed to merge document", "error", err, "path", path)
			return result, fmt.Errorf("case %d: %w", c.ID, err)
		}
		result.Documents = append(result.Documents, GeneratedDocument{
			Path:   path,
			CaseID: c.ID,
			Pages:  len(pages),
			Teams:  teamsOf(records),
		})
		logCtx.Info("Generated document.", "path", path, "pages", len(pages))
	}
	return result, nil
}

// assembleFormal validates every record before writing anything, then
// regroups all page copies by recipient into dossiers and team rosters.
func (a *DocumentAssembler) assembleFormal(ctx context.Context, cases []models.Case) (*AssemblyResult, error) {
	normalized := make([][]models.NormalizedRecord, len(cases))
	for i, c := range cases {
		records, err := a.normalizer.NormalizeCase(c)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", c.ID, err)
		}
		for _, rec := range records {
			if err := ValidateDispatch(rec); err != nil {
				return nil, err
			}
		}
		normalized[i] = records
	}

	var order []models.RecipientKey
	pagesBy := make(map[models.RecipientKey][]models.FieldMapping)
	teamsBy := make(map[models.RecipientKey][]string)

	for i, records := range normalized {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages := PairRecords(records)
		for p, page := range pages {
			copies, err := a.mapper.FormalMappings(page, p+1, len(pages))
			if err != nil {
				return nil, fmt.Errorf("case %d: %w", cases[i].ID, err)
			}
			for _, am := range copies {
				if _, ok := pagesBy[am.Key]; !ok {
					order = append(order, am.Key)
				}
				pagesBy[am.Key] = append(pagesBy[am.Key], am.Mapping)
				teamsBy[am.Key] = appendUnique(teamsBy[am.Key], recipientTeams(am.Key, page)...)
			}
		}
	}

	for _, dir := range []string{recipientsDir, teamsDir} {
		path := filepath.Join(a.config.OutputDir, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, &FilesystemError{Op: "create", Path: path, Err: err}
		}
	}

	result := &AssemblyResult{Format: models.FormatFormal}
	taken := make(map[string]bool, len(order))
	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		path := uniquePath(taken, formalPath(a.config.OutputDir, key))
		mappings := pagesBy[key]
		if err := a.engine.Merge(ctx, a.config.Template, mappings, path); err != nil {
			slog.Error("Failed to merge document", "error", err, "recipient", key.String(), "path", path)
			return result, fmt.Errorf("%s: %w", key, err)
		}
		result.Documents = append(result.Documents, GeneratedDocument{
			Path:  path,
			Key:   key,
			Pages: len(mappings),
			Teams: teamsBy[key],
		})
		slog.Info("Generated document.", "recipient", key.String(), "path", path, "pages", len(mappings))
	}
	return result, nil
}

// recipientTeams returns the units a copy of page belongs to: the person's
// own unit(s) for a dossier, the team itself for a roster.
func recipientTeams(key models.RecipientKey, page models.RecordPage) []string {
	if key.Kind == models.RecipientTeam {
		return []string{key.Name}
	}
	var teams []string
	for _, rec := range page.Records() {
		if rec.Name() == key.Name {
			teams = append(teams, rec.Team())
		}
	}
	return teams
}

func teamsOf(records []models.NormalizedRecord) []string {
	var teams []string
	for _, rec := range records {
		teams = appendUnique(teams, rec.Team())
	}
	return teams
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, have := range list {
			if have == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}

func formalPath(outputDir string, key models.RecipientKey) string {
	dir := recipientsDir
	if key.Kind == models.RecipientTeam {
		dir = teamsDir
	}
	return filepath.Join(outputDir, dir, SafeFileName(key.Name)+documentExt)
}

// uniquePath returns path, or path with a -2, -3, ... suffix when an earlier
// document already took it. Names are compared case-insensitively since the
// output folder may live on a case-insensitive filesystem.
func uniquePath(taken map[string]bool, path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	candidate := path
	for n := 2; taken[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s-%d%s", base, n, ext)
	}
	taken[strings.ToLower(candidate)] = true
	return candidate
}

var unsafeFileChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// SafeFileName turns a person or unit name into a file name component.
func SafeFileName(name string) string {
	s := strings.TrimSpace(unsafeFileChars.Replace(name))
	s = strings.Trim(s, ".")
	if s == "" {
		return "unnamed"
	}
	return s
}
