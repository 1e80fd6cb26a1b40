package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Lllllllleong/noticeflow/internal/gcp"
	"github.com/Lllllllleong/noticeflow/internal/models"
)

// Config holds all noticeflow configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Templates TemplatesConfig `yaml:"templates"`

	// OutputDir receives the merged documents, PDFs and packets.
	OutputDir string `yaml:"output_dir"`
	// Format is "draft" or "formal".
	Format string `yaml:"format"`
	// Issuer heads every draft, e.g. the issuing brigade.
	Issuer string `yaml:"issuer"`

	Cases   CaseRangeConfig `yaml:"cases"`
	Merge   CommandConfig   `yaml:"merge"`
	Convert CommandConfig   `yaml:"convert"`
	Print   PrintConfig     `yaml:"print"`
	Archive ArchiveConfig   `yaml:"archive"`
	Ledger  LedgerConfig    `yaml:"ledger"`
}

// DatabaseConfig points at the register database.
type DatabaseConfig struct {
	Driver      string `yaml:"driver"` // sqlite, postgres
	DSN         string `yaml:"dsn"`
	View        string `yaml:"view"`         // print view read by generate
	Register    string `yaml:"register"`     // table written by migrate
	LegacyTable string `yaml:"legacy_table"` // table read by migrate
}

// TemplatesConfig names the Word templates per output format.
type TemplatesConfig struct {
	Draft  string `yaml:"draft"`
	Formal string `yaml:"formal"`
}

// CaseRangeConfig limits a run to case ids in [From, To]; zero leaves a side open.
type CaseRangeConfig struct {
	From int64 `yaml:"from"`
	To   int64 `yaml:"to"`
}

// CommandConfig is an external program invocation. Arguments may contain
// {placeholders} that the caller substitutes.
type CommandConfig struct {
	Command []string `yaml:"command"`
}

// PrintConfig configures the PDF print command and the pause between jobs.
type PrintConfig struct {
	Command []string `yaml:"command"`
	Delay   string   `yaml:"delay"`
}

// ArchiveConfig enables uploading packets to Cloud Storage.
type ArchiveConfig struct {
	ProjectID   string `yaml:"project_id"`
	Bucket      string `yaml:"bucket"`
	Concurrency int    `yaml:"concurrency"`
}

// LedgerConfig names the Firestore collection of dispatch runs.
type LedgerConfig struct {
	Collection string `yaml:"collection"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:      "sqlite",
			DSN:         "database.db",
			View:        "列印查詢",
			Register:    "獎懲登記",
			LegacyTable: "舊獎懲登記",
		},
		Templates: TemplatesConfig{
			Draft:  "templates/draft.docx",
			Formal: "templates/formal.docx",
		},
		OutputDir: "output",
		Format:    string(models.FormatDraft),
		Issuer:    "保安警察第七總隊第三大隊",
		Convert: CommandConfig{
			Command: []string{"soffice", "--headless", "--convert-to", "pdf", "--outdir", "{dir}", "{in}"},
		},
		Print: PrintConfig{
			Command: []string{`C:\Program Files (x86)\Adobe\Reader 11.0\Reader\AcroRd32.exe`, "/s", "/h", "/t", "{file}"},
			Delay:   "1s",
		},
		Archive: ArchiveConfig{Concurrency: 4},
		Ledger:  LedgerConfig{Collection: "dispatchRuns"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Database.Driver = gcp.GetEnv("NOTICEFLOW_DB_DRIVER", c.Database.Driver)
	c.Database.DSN = gcp.GetEnv("NOTICEFLOW_DB_DSN", c.Database.DSN)
	c.OutputDir = gcp.GetEnv("NOTICEFLOW_OUTPUT_DIR", c.OutputDir)
	c.Format = gcp.GetEnv("NOTICEFLOW_FORMAT", c.Format)
	c.Templates.Draft = gcp.GetEnv("NOTICEFLOW_DRAFT_TEMPLATE", c.Templates.Draft)
	c.Templates.Formal = gcp.GetEnv("NOTICEFLOW_FORMAL_TEMPLATE", c.Templates.Formal)
	c.Archive.ProjectID = gcp.GetEnv("PROJECT_ID", c.Archive.ProjectID)
	c.Archive.Bucket = gcp.GetEnv("PACKET_BUCKET", c.Archive.Bucket)
	c.Ledger.Collection = gcp.GetEnv("FIRESTORE_COLLECTION", c.Ledger.Collection)
	if cmd := gcp.GetEnv("NOTICEFLOW_MERGE_COMMAND", ""); cmd != "" {
		c.Merge.Command = strings.Fields(cmd)
	}
	for key, dst := range map[string]*int64{
		"NOTICEFLOW_CASE_FROM": &c.Cases.From,
		"NOTICEFLOW_CASE_TO":   &c.Cases.To,
	} {
		v := gcp.GetEnv(key, "")
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		*dst = n
	}
	return nil
}

// Validate rejects settings that would fail halfway through a run.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q (want sqlite or postgres)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn must be set")
	}
	if c.Database.View == "" {
		return fmt.Errorf("database.view must be set")
	}
	if _, err := models.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must be set")
	}
	if c.Cases.From < 0 || c.Cases.To < 0 {
		return fmt.Errorf("case range must not be negative")
	}
	if c.Cases.To != 0 && c.Cases.From > c.Cases.To {
		return fmt.Errorf("case range %d-%d is inverted", c.Cases.From, c.Cases.To)
	}
	if _, err := c.PrintDelay(); err != nil {
		return err
	}
	if c.Archive.Bucket != "" && c.Archive.ProjectID == "" {
		return fmt.Errorf("archive.project_id must be set when archive.bucket is set")
	}
	return nil
}

// OutputFormat returns the validated output format.
func (c *Config) OutputFormat() models.Format {
	f, _ := models.ParseFormat(c.Format)
	return f
}

// PrintDelay parses print.delay; empty means no pause.
func (c *Config) PrintDelay() (time.Duration, error) {
	if c.Print.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Print.Delay)
	if err != nil {
		return 0, fmt.Errorf("invalid print.delay %q: %w", c.Print.Delay, err)
	}
	return d, nil
}
