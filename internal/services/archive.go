package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/noticeflow/internal/gcp"
	"github.com/Lllllllleong/noticeflow/internal/models"
)

// ObjectUploader stores packet files in an object store.
type ObjectUploader interface {
	// Upload writes r to object unless it already exists. It reports
	// whether anything was written.
	Upload(ctx context.Context, object string, r io.Reader) (bool, error)
	URI(object string) string
}

// GCSUploader uploads packets to a Cloud Storage bucket.
type GCSUploader struct {
	bucket *storage.BucketHandle
	name   string
}

// NewGCSUploader creates an uploader for bucket.
func NewGCSUploader(client *storage.Client, bucket string) *GCSUploader {
	return &GCSUploader{bucket: client.Bucket(bucket), name: bucket}
}

func (u *GCSUploader) Upload(ctx context.Context, object string, r io.Reader) (bool, error) {
	return gcp.UploadIfAbsent(ctx, u.bucket, object, r)
}

func (u *GCSUploader) URI(object string) string {
	return fmt.Sprintf("gs://%s/%s", u.name, object)
}

// ArchiverConfig holds configuration for the packet archiver.
type ArchiverConfig struct {
	Concurrency int
	MaxRetries  int
	Backoff     time.Duration
}

// Archiver uploads the packets of a run under {runID}/ with bounded
// concurrency, retrying each upload with exponential backoff.
type Archiver struct {
	uploader ObjectUploader
	config   ArchiverConfig
}

// NewArchiver creates an Archiver. Zero config values take defaults.
func NewArchiver(uploader ObjectUploader, config ArchiverConfig) *Archiver {
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 4
	}
	if config.Backoff <= 0 {
		config.Backoff = time.Second
	}
	return &Archiver{uploader: uploader, config: config}
}

// Archive uploads every packet and returns copies carrying their URIs.
func (a *Archiver) Archive(ctx context.Context, runID string, packets []models.Packet) ([]models.Packet, error) {
	logCtx := slog.With("runId", runID)
	logCtx.Info("Starting concurrent upload of packets.", "packetCount", len(packets))

	archived := make([]models.Packet, len(packets))
	copy(archived, packets)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.config.Concurrency)
	for i := range archived {
		p := &archived[i]
		object := path.Join(runID, filepath.Base(p.Path))
		eg.Go(func() error {
			if err := a.uploadFile(gctx, p.Path, object); err != nil {
				return fmt.Errorf("packet %s: %w", p.Name, err)
			}
			p.GCSUri = a.uploader.URI(object)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		logCtx.Error("One or more packets failed to upload", "error", err)
		return nil, err
	}
	logCtx.Info("All packets uploaded successfully.")
	return archived, nil
}

func (a *Archiver) uploadFile(ctx context.Context, localPath, object string) error {
	backoff := a.config.Backoff
	var lastErr error

	for i := 0; i < a.config.MaxRetries; i++ {
		err := func() error {
			f, err := os.Open(localPath)
			if err != nil {
				return fmt.Errorf("could not open local file %s: %w", localPath, err)
			}
			defer f.Close()

			writeCtx, cancel := context.WithTimeout(ctx, 50*time.Second)
			defer cancel()
			written, err := a.uploader.Upload(writeCtx, object, f)
			if err != nil {
				return err
			}
			if written {
				slog.Info("Uploaded packet.", "object", object)
			}
			return nil
		}()
		if err == nil {
			return nil
		}

		lastErr = err
		slog.Warn(
			"Upload failed, will retry.",
			"object", object,
			"attempt", i+1,
			"maxRetries", a.config.MaxRetries,
			"backoff", backoff.String(),
			"error", err,
		)
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			slog.Error("Context cancelled during backoff. Aborting retries.", "object", object, "error", ctx.Err())
			return ctx.Err()
		}
	}
	slog.Error("Upload failed after all retries.", "object", object, "error", lastErr)
	return fmt.Errorf("upload for %s failed after all retries: %w", object, lastErr)
}
