package models

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// DocxContentType is the MIME type of every document the generator returns.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	ErrUnknownField    = errors.New("unknown personal info field")
	ErrUnsupportedFile = errors.New("resume must be a .doc or .docx file")
	ErrUnknownVariant  = errors.New("unknown submission variant")
)

// ResumeFile is the uploaded resume as selected by the user.
// Treat it as immutable once it is handed to a draft.
type ResumeFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// acceptedResumeTypes mirrors the file picker filter (.doc, .docx).
var acceptedResumeTypes = map[string]string{
	".doc":  "application/msword",
	".docx": DocxContentType,
}

// IsAcceptedResume reports whether the file name passes the .doc/.docx filter.
func IsAcceptedResume(name string) bool {
	_, ok := acceptedResumeTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// NewResumeFile applies the picker filter and fills in the content type when
// the caller did not send one.
func NewResumeFile(name, contentType string, data []byte) (*ResumeFile, error) {
	ct, ok := acceptedResumeTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return nil, ErrUnsupportedFile
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = ct
	}
	return &ResumeFile{Name: name, ContentType: contentType, Data: data}, nil
}

// Document is a generated file returned by the document service.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Submission outcomes stored in the submission log.
const (
	OutcomeSucceeded = "SUCCEEDED"
	OutcomeRejected  = "REJECTED"
	OutcomeFailed    = "FAILED"
)

// SubmissionRecord is one line of the submission log. It only carries
// metadata about the exchange, never the entered form data.
type SubmissionRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID     string `gorm:"index;not null" json:"session_id"`
	Variant       string `gorm:"not null" json:"variant"`
	Outcome       string `gorm:"not null" json:"outcome"`
	StatusCode    int    `json:"status_code,omitempty"`
	ResumeBytes   int    `json:"resume_bytes"`
	DocumentBytes int    `json:"document_bytes"`
	DurationMS    int64  `json:"duration_ms"`
	Error         string `gorm:"type:text" json:"error,omitempty"`
}
