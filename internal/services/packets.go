package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

const packetsDir = "packets"

// PacketsDir is where packets of a run under outputDir are written.
func PacketsDir(outputDir string) string {
	return filepath.Join(outputDir, packetsDir)
}

// PacketPlan is one combined PDF to build from generated documents.
type PacketPlan struct {
	Name    string
	Sources []string
}

// PlanPackets decides which PDFs go into which packet. Drafts are combined
// into a single packet named after the case range. Formal output yields one
// packet per team: its roster followed by the dossiers of its members,
// named after the roster file so that packet names are as unique as rosters.
func PlanPackets(result *AssemblyResult) []PacketPlan {
	if result == nil || len(result.Documents) == 0 {
		return nil
	}
	docs := result.Documents

	if result.Format == models.FormatDraft {
		plan := PacketPlan{Name: fmt.Sprintf("%d-%d", docs[0].CaseID, docs[len(docs)-1].CaseID)}
		for _, doc := range docs {
			plan.Sources = append(plan.Sources, PDFPath(doc.Path))
		}
		return []PacketPlan{plan}
	}

	var plans []PacketPlan
	for _, roster := range docs {
		if roster.Key.Kind != models.RecipientTeam {
			continue
		}
		team := roster.Key.Name
		name := strings.TrimSuffix(filepath.Base(roster.Path), filepath.Ext(roster.Path))
		plan := PacketPlan{Name: name, Sources: []string{PDFPath(roster.Path)}}
		for _, doc := range docs {
			if doc.Key.Kind == models.RecipientPerson && contains(doc.Teams, team) {
				plan.Sources = append(plan.Sources, PDFPath(doc.Path))
			}
		}
		plans = append(plans, plan)
	}
	return plans
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// PacketBuilder combines planned packets under {outputDir}/packets.
// A formal dossier can appear in several team packets, so sources are
// removed only once every packet is built.
type PacketBuilder struct {
	combiner    *PdfCombiner
	outputDir   string
	keepSources bool
}

// NewPacketBuilder creates a PacketBuilder.
func NewPacketBuilder(outputDir string, keepSources bool) *PacketBuilder {
	return &PacketBuilder{
		combiner:    NewPdfCombiner(true),
		outputDir:   outputDir,
		keepSources: keepSources,
	}
}

// Build combines every plan and returns the packets in plan order.
func (b *PacketBuilder) Build(ctx context.Context, plans []PacketPlan) ([]models.Packet, error) {
	dir := PacketsDir(b.outputDir)
	packets := make([]models.Packet, 0, len(plans))
	var used []string

	for _, plan := range plans {
		logCtx := slog.With("packet", plan.Name)
		out := filepath.Join(dir, plan.Name+".pdf")
		pages, err := b.combiner.Combine(ctx, plan.Sources, out)
		if err != nil {
			logCtx.Error("Failed to combine packet", "error", err)
			return packets, fmt.Errorf("packet %s: %w", plan.Name, err)
		}
		hash, err := calculateFileHash(out)
		if err != nil {
			return packets, &FilesystemError{Op: "read", Path: out, Err: err}
		}
		packets = append(packets, models.Packet{Name: plan.Name, Path: out, Pages: pages, SHA256: hash})
		used = appendUnique(used, plan.Sources...)
		logCtx.Info("Built packet.", "path", out, "pages", pages, "sources", len(plan.Sources))
	}

	if b.keepSources {
		return packets, nil
	}
	for _, src := range used {
		if err := os.Remove(src); err != nil {
			return packets, &FilesystemError{Op: "remove", Path: src, Err: err}
		}
	}
	return packets, nil
}

func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
