package models

import "strings"

// Draft is the complete in-memory state of one form instance.
// Every With* method returns a new Draft and leaves the receiver untouched.
type Draft struct {
	File           *ResumeFile
	JobDescription string
	PersonalInfo   PersonalInfo
	Busy           bool
}

func (d Draft) WithField(key, value string) (Draft, error) {
	info, err := d.PersonalInfo.With(key, value)
	if err != nil {
		return d, err
	}
	d.PersonalInfo = info
	return d, nil
}

// WithFile replaces the selected file. A nil file clears the selection.
func (d Draft) WithFile(f *ResumeFile) Draft {
	d.File = f
	return d
}

func (d Draft) WithJobDescription(text string) Draft {
	d.JobDescription = text
	return d
}

// Ready reports whether the draft passes the submit gate: a selected file and a
// job description that is not blank.
func (d Draft) Ready() bool {
	return d.File != nil && strings.TrimSpace(d.JobDescription) != ""
}
