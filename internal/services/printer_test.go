package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintDirSpacesJobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2.pdf", "10.pdf", "1.docx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	spool := filepath.Join(t.TempDir(), "spool")

	p := NewPrinter([]string{"sh", "-c", `echo "$0" >> "$1"`, "{file}", spool}, time.Second)
	var sleeps []time.Duration
	p.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	printed, err := p.PrintDir(context.Background(), dir)
	require.NoError(t, err)
	want := []string{filepath.Join(dir, "2.pdf"), filepath.Join(dir, "10.pdf")}
	assert.Equal(t, want, printed)
	assert.Equal(t, []time.Duration{time.Second}, sleeps)

	data, err := os.ReadFile(spool)
	require.NoError(t, err)
	assert.Equal(t, want, strings.Fields(string(data)))
}

func TestPrintStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPrinter([]string{"true"}, time.Hour)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}

	printed, err := p.PrintFiles(ctx, []string{"a.pdf", "b.pdf"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a.pdf"}, printed)
}

func TestPrintFailure(t *testing.T) {
	_, err := NewPrinter([]string{"false"}, 0).PrintFiles(context.Background(), []string{"a.pdf"})
	var ete *ExternalToolError
	require.ErrorAs(t, err, &ete)
	assert.Equal(t, "print", ete.Tool)
}
