package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// PdfCombiner concatenates exported PDFs into one duplex-ready file.
type PdfCombiner struct {
	conf        *model.Configuration
	keepSources bool
}

// NewPdfCombiner creates a PdfCombiner. Unless keepSources is set, the
// source files are deleted after a successful combine.
func NewPdfCombiner(keepSources bool) *PdfCombiner {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PdfCombiner{conf: conf, keepSources: keepSources}
}

// duplexPadding reports for each source whether a blank page must follow it
// so that the next source starts on the front of a sheet.
func duplexPadding(pageCounts []int) []bool {
	pad := make([]bool, len(pageCounts))
	for i, n := range pageCounts {
		pad[i] = i < len(pageCounts)-1 && n%2 == 1
	}
	return pad
}

// Combine writes sources, in order, to outPath and returns its page count.
func (c *PdfCombiner) Combine(ctx context.Context, sources []string, outPath string) (int, error) {
	if len(sources) == 0 {
		return 0, errors.New("no PDFs to combine")
	}
	logCtx := slog.With("output", outPath, "sourceCount", len(sources))

	counts := make([]int, len(sources))
	for i, src := range sources {
		n, err := api.PageCountFile(src)
		if err != nil {
			return 0, &ExternalToolError{Tool: "pdfcpu", Err: fmt.Errorf("failed to get page count of %s: %w", src, err)}
		}
		counts[i] = n
	}

	tempDir, err := os.MkdirTemp("", "noticeflow-combine-*")
	if err != nil {
		return 0, &FilesystemError{Op: "create", Path: "temp dir", Err: err}
	}
	defer os.RemoveAll(tempDir)

	total := 0
	inputs := make([]string, len(sources))
	for i, pad := range duplexPadding(counts) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		inputs[i] = sources[i]
		total += counts[i]
		if !pad {
			continue
		}
		padded := filepath.Join(tempDir, fmt.Sprintf("%05d.pdf", i))
		last := []string{strconv.Itoa(counts[i])}
		if err := api.InsertPagesFile(sources[i], padded, last, false, nil, c.conf); err != nil {
			return 0, &ExternalToolError{Tool: "pdfcpu", Err: fmt.Errorf("failed to pad %s: %w", sources[i], err)}
		}
		inputs[i] = padded
		total++
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, &FilesystemError{Op: "create", Path: filepath.Dir(outPath), Err: err}
	}
	if len(inputs) == 1 {
		err = copyFile(inputs[0], outPath)
	} else {
		err = api.MergeCreateFile(inputs, outPath, false, c.conf)
		if err != nil {
			err = &ExternalToolError{Tool: "pdfcpu", Err: fmt.Errorf("failed to merge into %s: %w", outPath, err)}
		}
	}
	if err != nil {
		return 0, err
	}
	logCtx.Info("Combined PDFs.", "pages", total)

	if c.keepSources {
		return total, nil
	}
	for _, src := range sources {
		if src == outPath {
			continue
		}
		if err := os.Remove(src); err != nil {
			return total, &FilesystemError{Op: "remove", Path: src, Err: err}
		}
	}
	return total, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &FilesystemError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return &FilesystemError{Op: "create", Path: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &FilesystemError{Op: "write", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &FilesystemError{Op: "write", Path: dst, Err: err}
	}
	return nil
}
