package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/justsurfingit/cover-letter-studio/internal/models"
)

// Generator turns a draft into a document. GeneratorService is the HTTP
// implementation.
type Generator interface {
	Generate(ctx context.Context, variant models.Variant, draft models.Draft) (*models.Document, error)
}

// Downloader hands a generated document to the user: staged behind a one-shot
// link for the browser, or written to disk for the CLI.
type Downloader interface {
	Download(ctx context.Context, doc *models.Document) error
}

// Recorder receives submission metadata. HistoryService is the gorm-backed one.
type Recorder interface {
	Record(ctx context.Context, rec *models.SubmissionRecord)
}

// Dispatcher runs one submission for a form session.
type Dispatcher struct {
	generator Generator
	recorder  Recorder
}

// NewDispatcher wires a dispatcher. recorder may be nil.
func NewDispatcher(gen Generator, recorder Recorder) *Dispatcher {
	return &Dispatcher{generator: gen, recorder: recorder}
}

// Submit sends the session's draft to the document service and, on success,
// passes the document to dl exactly once.
//
// The gate (selected file, non-blank job description) is checked before any
// network activity. The draft itself is never modified; only the busy flag is
// raised for the duration of the call and lowered on every path.
func (d *Dispatcher) Submit(ctx context.Context, session *FormSession, variant models.Variant, dl Downloader) error {
	draft, err := session.begin()
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			d.record(ctx, &models.SubmissionRecord{
				SessionID: session.ID,
				Variant:   string(variant),
				Outcome:   models.OutcomeRejected,
				Error:     verr.Msg,
			})
		}
		return err
	}
	defer session.end()

	rec := &models.SubmissionRecord{
		SessionID:   session.ID,
		Variant:     string(variant),
		ResumeBytes: len(draft.File.Data),
	}
	start := time.Now()

	doc, err := d.generator.Generate(ctx, variant, draft)
	rec.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		rec.Outcome = models.OutcomeFailed
		rec.Error = err.Error()
		var terr *TransportError
		if errors.As(err, &terr) {
			rec.StatusCode = terr.StatusCode
		}
		slog.Warn("submission failed", "session", session.ID, "variant", variant, "err", err)
		d.record(ctx, rec)
		return err
	}

	if err := dl.Download(ctx, doc); err != nil {
		rec.Outcome = models.OutcomeFailed
		rec.Error = err.Error()
		d.record(ctx, rec)
		return fmt.Errorf("deliver %s: %w", doc.Filename, err)
	}

	rec.Outcome = models.OutcomeSucceeded
	rec.DocumentBytes = len(doc.Data)
	d.record(ctx, rec)
	return nil
}

func (d *Dispatcher) record(ctx context.Context, rec *models.SubmissionRecord) {
	if d.recorder == nil {
		return
	}
	d.recorder.Record(ctx, rec)
}
