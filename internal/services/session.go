package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"

	"github.com/Lllllllleong/noticeflow/internal/config"
	"github.com/Lllllllleong/noticeflow/internal/gcp"
	"github.com/Lllllllleong/noticeflow/internal/store"
)

// Session owns the resources of one run: the database handle, the merge
// engine and, when configured, the Cloud clients. Close releases them all.
type Session struct {
	DB      *sql.DB
	Records *store.RecordStore
	Legacy  *store.LegacyStore
	Engine  MergeEngine

	cfg       *config.Config
	firestore *firestore.Client
	storage   *storage.Client
}

// OpenSession connects to the database and, when a project is configured,
// to Firestore and Cloud Storage.
func OpenSession(ctx context.Context, cfg *config.Config) (*Session, error) {
	db, err := store.NewDB(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, &ExternalToolError{Tool: "database", Err: err}
	}
	s := &Session{
		DB:      db,
		Records: store.NewRecordStore(db, cfg.Database.Driver, cfg.Database.View, cfg.Database.Register),
		Legacy:  store.NewLegacyStore(db, cfg.Database.Driver, cfg.Database.LegacyTable),
		Engine:  NewJobMerger(cfg.Merge.Command),
		cfg:     cfg,
	}

	if cfg.Archive.ProjectID != "" {
		s.firestore, err = gcp.NewFirestoreClient(ctx, cfg.Archive.ProjectID)
		if err != nil {
			s.Close()
			return nil, err
		}
	}
	if cfg.Archive.Bucket != "" {
		s.storage, err = storage.NewClient(ctx)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create Storage client: %w", err)
		}
	}
	slog.Info("Session opened.", "driver", cfg.Database.Driver, "ledger", s.firestore != nil, "archive", s.storage != nil)
	return s, nil
}

// GeneratorOptions tune a generation pipeline built from a session.
type GeneratorOptions struct {
	// Convert enables PDF conversion, packets and archiving.
	Convert     bool
	KeepSources bool
	// OutputDir overrides output_dir.
	OutputDir string
}

// Generator builds the generation pipeline for this session.
func (s *Session) Generator(opts GeneratorOptions) *Generator {
	outputDir := s.cfg.OutputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}
	var conv DocumentConverter
	if opts.Convert {
		conv = NewConverter(s.cfg.Convert.Command)
	}
	var archiver *Archiver
	if s.storage != nil {
		archiver = NewArchiver(NewGCSUploader(s.storage, s.cfg.Archive.Bucket), ArchiverConfig{
			Concurrency: s.cfg.Archive.Concurrency,
		})
	}
	var ledger Ledger = LogLedger{}
	if s.firestore != nil {
		ledger = NewFirestoreLedger(s.firestore, s.cfg.Ledger.Collection)
	}
	return NewGenerator(s.Records, s.Engine, conv, archiver, ledger, GeneratorConfig{
		OutputDir:      outputDir,
		Issuer:         s.cfg.Issuer,
		DraftTemplate:  s.cfg.Templates.Draft,
		FormalTemplate: s.cfg.Templates.Formal,
		DefaultFormat:  s.cfg.OutputFormat(),
		KeepSources:    opts.KeepSources,
	})
}

// Migrator builds the legacy migration for this session.
func (s *Session) Migrator() *Migrator {
	return NewMigrator(s.Legacy, s.Records)
}

// Close releases every resource the session holds.
func (s *Session) Close() error {
	var errs []error
	if s.Engine != nil {
		errs = append(errs, s.Engine.Close())
	}
	if s.firestore != nil {
		errs = append(errs, s.firestore.Close())
	}
	if s.storage != nil {
		errs = append(errs, s.storage.Close())
	}
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	return errors.Join(errs...)
}
