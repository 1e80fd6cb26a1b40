package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest is wrapped by errors about a malformed generation request.
var ErrInvalidRequest = errors.New("invalid request")

// ErrMissingIssuance is wrapped by InvalidDispatchStateError.
var ErrMissingIssuance = errors.New("missing issuance metadata")

// MissingFieldError reports a record that lacks a field a sentence template needs.
type MissingFieldError struct {
	RecordID int64
	CaseID   int64
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record %d (case %d): required field %s is empty", e.RecordID, e.CaseID, e.Field)
}

// InvalidDispatchStateError reports formal output requested for a record
// whose dispatch serial or issue date has not been assigned yet.
type InvalidDispatchStateError struct {
	RecordID int64
	CaseID   int64
	Missing  []string
}

func (e *InvalidDispatchStateError) Error() string {
	return fmt.Sprintf("record %d (case %d): %v: %s", e.RecordID, e.CaseID, ErrMissingIssuance, strings.Join(e.Missing, ", "))
}

func (e *InvalidDispatchStateError) Unwrap() error { return ErrMissingIssuance }

// ExternalToolError wraps a failure of a collaborator outside the process:
// the merge engine, the converter, the printer or the database.
type ExternalToolError struct {
	Tool   string
	Output string
	Err    error
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// FilesystemError wraps a failure to create, write or remove a local file.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
