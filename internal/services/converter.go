package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Converter exports merged documents to PDF through an external office
// program. Arguments may use {in}, {out} and {dir}.
type Converter struct {
	command []string
}

// NewConverter creates a Converter.
func NewConverter(command []string) *Converter {
	return &Converter{command: command}
}

// PDFPath is where the converter leaves the PDF of doc.
func PDFPath(doc string) string {
	return strings.TrimSuffix(doc, filepath.Ext(doc)) + ".pdf"
}

// ConvertFiles converts each document in order and returns the PDF paths.
func (c *Converter) ConvertFiles(ctx context.Context, docs []string) ([]string, error) {
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		pdf := PDFPath(doc)
		argv := expandCommand(c.command, map[string]string{
			"in":  doc,
			"out": pdf,
			"dir": filepath.Dir(doc),
		})
		if err := runCommand(ctx, "convert", argv); err != nil {
			return out, fmt.Errorf("converting %s: %w", doc, err)
		}
		if _, err := os.Stat(pdf); err != nil {
			return out, &ExternalToolError{Tool: "convert", Err: fmt.Errorf("expected output %s: %w", pdf, err)}
		}
		slog.Info("Converted document.", "path", pdf)
		out = append(out, pdf)
	}
	return out, nil
}

// ConvertDir converts every .docx in dir, in natural order.
func (c *Converter) ConvertDir(ctx context.Context, dir string) ([]string, error) {
	docs, err := listFiles(dir, documentExt)
	if err != nil {
		return nil, err
	}
	return c.ConvertFiles(ctx, docs)
}
