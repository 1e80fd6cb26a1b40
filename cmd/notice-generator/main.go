package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/Lllllllleong/noticeflow/internal/config"
	"github.com/Lllllllleong/noticeflow/internal/models"
	"github.com/Lllllllleong/noticeflow/internal/services"
)

var (
	session *services.Session
	once    sync.Once
	initErr error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleGenerateNotices", handleGenerateNotices)
}

func main() {}

// newSession configures the function from the environment only.
func newSession(ctx context.Context) (*services.Session, error) {
	cfg, err := config.Load(os.Getenv("NOTICEFLOW_CONFIG"))
	if err != nil {
		return nil, err
	}
	return services.OpenSession(ctx, cfg)
}

// handleGenerateNotices is the HTTP handler for the notice generator.
func handleGenerateNotices(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		session, initErr = newSession(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: Notice generator initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Could not decode request body", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	// Only the temp dir is writable; every request gets its own.
	outputDir, err := os.MkdirTemp("", "notices-*")
	if err != nil {
		slog.Error("Failed to create output dir", "error", err)
		http.Error(w, "Internal Server Error: no scratch space", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(outputDir)

	generator := session.Generator(services.GeneratorOptions{Convert: true, OutputDir: outputDir})
	res, err := generator.Process(r.Context(), &req)
	if errors.Is(err, services.ErrInvalidRequest) {
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		// Error is already logged with context in the Process method.
		http.Error(w, "Internal Server Error: processing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error(
			"Failed to write response",
			"error", err,
			"runId", res.RunID,
			"executionId", req.ExecutionID,
		)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}
