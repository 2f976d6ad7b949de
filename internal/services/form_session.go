package services

import (
	"sync"

	"github.com/justsurfingit/cover-letter-studio/internal/models"
)

// FormSession owns the draft of one mounted form. Mutations are applied as
// pure Draft transitions under the session lock, so every change is visible
// to the next Snapshot.
type FormSession struct {
	ID string

	mu    sync.Mutex
	draft models.Draft
}

// NewFormSession mounts an empty form.
func NewFormSession(id string) *FormSession {
	return &FormSession{ID: id}
}

// SetField updates one personal info field, leaving every other field as is.
func (s *FormSession) SetField(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.draft.WithField(key, value)
	if err != nil {
		return err
	}
	s.draft = next
	return nil
}

// SetFile selects a resume, or clears the selection when f is nil.
func (s *FormSession) SetFile(f *models.ResumeFile) {
	s.mu.Lock()
	s.draft = s.draft.WithFile(f)
	s.mu.Unlock()
}

func (s *FormSession) SetJobDescription(text string) {
	s.mu.Lock()
	s.draft = s.draft.WithJobDescription(text)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current draft.
func (s *FormSession) Snapshot() models.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *FormSession) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Busy
}

// CanSubmit drives the enabled state of the submit control.
func (s *FormSession) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.draft.Busy && s.draft.Ready()
}

// begin checks the submit gate and marks the draft busy. The returned draft is
// the snapshot that gets sent.
func (s *FormSession) begin() (models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.Busy {
		return models.Draft{}, ErrBusy
	}
	if !s.draft.Ready() {
		return models.Draft{}, &ValidationError{Msg: MissingInputMessage}
	}
	s.draft.Busy = true
	return s.draft, nil
}

func (s *FormSession) end() {
	s.mu.Lock()
	s.draft.Busy = false
	s.mu.Unlock()
}
