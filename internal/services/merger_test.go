package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

func TestJobMergerWritesJob(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "1001.docx")

	fm := models.NewFieldMapping()
	fm.Set(FieldRepresentation, "陳志強1員")
	fm.SetTable(FieldFooter, nil)

	err := NewJobMerger(nil).Merge(context.Background(), "draft.docx", []models.FieldMapping{fm}, out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "1001.json"))
	require.NoError(t, err)

	var job struct {
		Template string           `json:"template"`
		Output   string           `json:"output"`
		Pages    []map[string]any `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(data, &job))
	assert.Equal(t, "draft.docx", job.Template)
	assert.Equal(t, out, job.Output)
	require.Len(t, job.Pages, 1)
	assert.Equal(t, "陳志強1員", job.Pages[0][FieldRepresentation])
	assert.Equal(t, []any{}, job.Pages[0][FieldFooter])
}

func TestJobMergerRunsCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "1001.docx")
	m := NewJobMerger([]string{"sh", "-c", `cp "$0" "$1"`, "{job}", "{out}"})

	err := m.Merge(context.Background(), "draft.docx", []models.FieldMapping{models.NewFieldMapping()}, out)
	require.NoError(t, err)
	assert.FileExists(t, out)
	assert.NoError(t, m.Close())
}

func TestJobMergerCommandFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "1001.docx")
	err := NewJobMerger([]string{"sh", "-c", "echo template mismatch >&2; exit 3"}).
		Merge(context.Background(), "draft.docx", []models.FieldMapping{models.NewFieldMapping()}, out)

	var ete *ExternalToolError
	require.ErrorAs(t, err, &ete)
	assert.Equal(t, "merge", ete.Tool)
	assert.Contains(t, ete.Error(), "template mismatch")
}

func TestJobMergerCommandWithoutOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "1001.docx")
	err := NewJobMerger([]string{"true"}).
		Merge(context.Background(), "draft.docx", []models.FieldMapping{models.NewFieldMapping()}, out)
	var ete *ExternalToolError
	assert.ErrorAs(t, err, &ete)
}

func TestJobMergerRejectsEmpty(t *testing.T) {
	err := NewJobMerger(nil).Merge(context.Background(), "draft.docx", nil, filepath.Join(t.TempDir(), "x.docx"))
	assert.Error(t, err)
}

func TestExpandCommand(t *testing.T) {
	got := expandCommand([]string{"tool", "--in={in}", "{dir}/x"}, map[string]string{"in": "a.docx", "dir": "/tmp"})
	assert.Equal(t, []string{"tool", "--in=a.docx", "/tmp/x"}, got)
}
