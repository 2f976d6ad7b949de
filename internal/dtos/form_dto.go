package dtos

import "github.com/justsurfingit/cover-letter-studio/internal/models"

type FieldUpdateRequest struct {
	Key   string  `json:"key" binding:"required"`
	Value *string `json:"value" binding:"required"` // pointer so "" clears the field
}

type JobDescriptionRequest struct {
	JobDescription *string `json:"jobDescription" binding:"required"`
}

type FileView struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// DraftView is the JSON snapshot of a form session.
type DraftView struct {
	PersonalInfo       models.PersonalInfo `json:"personalInfo"`
	JobDescription     string              `json:"jobDescription"`
	File               *FileView           `json:"file"`
	Busy               bool                `json:"busy"`
	CanSubmit          bool                `json:"canSubmit"`
	MissingRecommended []string            `json:"missingRecommended"`
}

// NewDraftView renders d. The file bytes never leave the server.
func NewDraftView(d models.Draft) DraftView {
	view := DraftView{
		PersonalInfo:       d.PersonalInfo,
		JobDescription:     d.JobDescription,
		Busy:               d.Busy,
		CanSubmit:          !d.Busy && d.Ready(),
		MissingRecommended: d.PersonalInfo.MissingRecommended(),
	}
	if view.MissingRecommended == nil {
		view.MissingRecommended = []string{}
	}
	if d.File != nil {
		view.File = &FileView{Name: d.File.Name, Size: len(d.File.Data)}
	}
	return view
}

type SubmitResponse struct {
	DownloadURL string `json:"downloadUrl"`
	Filename    string `json:"filename"`
}
