package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/noticeflow/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "noticeflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "列印查詢", cfg.Database.View)
	assert.Equal(t, models.FormatDraft, cfg.OutputFormat())
	assert.Equal(t, "templates/draft.docx", cfg.Templates.Draft)

	delay, err := cfg.PrintDelay()
	require.NoError(t, err)
	assert.Equal(t, time.Second, delay)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
  dsn: postgres://notices@localhost/notices?sslmode=disable
format: formal
output_dir: out
cases:
  from: 1001
  to: 1010
merge:
  command: ["cscript", "merge.vbs", "{template}", "{job}", "{out}"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, models.FormatFormal, cfg.OutputFormat())
	assert.Equal(t, "templates/formal.docx", cfg.Templates.Formal)
	assert.Equal(t, int64(1001), cfg.Cases.From)
	assert.Equal(t, int64(1010), cfg.Cases.To)
	assert.Equal(t, []string{"cscript", "merge.vbs", "{template}", "{job}", "{out}"}, cfg.Merge.Command)
	// untouched keys keep their defaults
	assert.Equal(t, "列印查詢", cfg.Database.View)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NOTICEFLOW_FORMAT", "FORMAL")
	t.Setenv("NOTICEFLOW_CASE_FROM", "7")
	t.Setenv("NOTICEFLOW_MERGE_COMMAND", "merge-tool {job}")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, models.FormatFormal, cfg.OutputFormat())
	assert.Equal(t, int64(7), cfg.Cases.From)
	assert.Equal(t, []string{"merge-tool", "{job}"}, cfg.Merge.Command)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"driver", "database:\n  driver: access\n"},
		{"format", "format: final\n"},
		{"inverted range", "cases:\n  from: 20\n  to: 10\n"},
		{"delay", "print:\n  delay: soon\n"},
		{"bucket without project", "archive:\n  bucket: packets\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadBadCaseEnv(t *testing.T) {
	t.Setenv("NOTICEFLOW_CASE_TO", "ten")
	_, err := Load("")
	assert.ErrorContains(t, err, "NOTICEFLOW_CASE_TO")
}
