package services

import (
	"errors"
	"fmt"

	"github.com/justsurfingit/cover-letter-studio/internal/models"
)

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrBusy is returned when a submission is already running for the draft.
var ErrBusy = errors.New("a submission is already in progress")

// ErrDownloadNotFound is returned when a staged download is missing, expired
// or already taken.
var ErrDownloadNotFound = errors.New("download not found or already taken")

// ErrDocumentTooLarge is returned when the generated document exceeds the
// configured maximum size.
var ErrDocumentTooLarge = errors.New("generated document exceeds size limit")

// MissingInputMessage is the notice shown when the submit gate fails.
const MissingInputMessage = "Please upload a resume and provide job description"

// ValidationError wraps a user-facing validation message. It is raised before
// any network activity and never changes the draft.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// TransportError covers a failed exchange with the document service: either a
// network failure (StatusCode 0) or a non-2xx response.
type TransportError struct {
	Variant    models.Variant
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: document service returned status %d", e.Variant, e.StatusCode)
	}
	return fmt.Sprintf("%s: document service request failed: %v", e.Variant, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage is the notification text for the failed variant.
func (e *TransportError) UserMessage() string { return e.Variant.FailureMessage() }
