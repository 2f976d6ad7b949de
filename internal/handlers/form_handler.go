package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/cover-letter-studio/internal/auth"
	"github.com/justsurfingit/cover-letter-studio/internal/dtos"
	"github.com/justsurfingit/cover-letter-studio/internal/models"
	"github.com/justsurfingit/cover-letter-studio/internal/services"
)

const historyLimit = 20

// FormHandler serves the form view and its JSON API. Every request works on the
// caller's own FormSession, resolved from the session cookie.
type FormHandler struct {
	Sessions       *services.SessionStore
	Dispatcher     *services.Dispatcher
	Staging        *services.StagingService
	History        *services.HistoryService
	MaxUploadBytes int64
}

func NewFormHandler(sessions *services.SessionStore, d *services.Dispatcher, staging *services.StagingService, history *services.HistoryService, maxUpload int64) *FormHandler {
	return &FormHandler{
		Sessions:       sessions,
		Dispatcher:     d,
		Staging:        staging,
		History:        history,
		MaxUploadBytes: maxUpload,
	}
}

func (h *FormHandler) session(c *gin.Context) *services.FormSession {
	return h.Sessions.Open(auth.SessionID(c))
}

// HealthCheck is the GET /health endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Index renders the form. ?variant=resume mounts the resume improver.
func (h *FormHandler) Index(c *gin.Context) {
	variant, err := models.ParseVariant(c.DefaultQuery("variant", string(models.VariantCoverLetter)))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	draft := h.session(c).Snapshot()
	values := make(map[string]string, len(models.PersonalInfoFields))
	for _, key := range models.PersonalInfoFields {
		values[key], _ = draft.PersonalInfo.Get(key)
	}
	c.HTML(http.StatusOK, "form.html", gin.H{
		"Variant":  variant,
		"Title":    variant.Title(),
		"Button":   submitLabel(variant),
		"Fields":   formFields,
		"Values":   values,
		"Draft":    dtos.NewDraftView(draft),
		"Missing":  services.MissingInputMessage,
		"Failure":  variant.FailureMessage(),
		"Personal": variant.SendsPersonalInfo(),
	})
}

func (h *FormHandler) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, dtos.NewDraftView(h.session(c).Snapshot()))
}

// SetField is the PUT /draft/fields endpoint
func (h *FormHandler) SetField(c *gin.Context) {
	var req dtos.FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	s := h.session(c)
	if err := s.SetField(req.Key, *req.Value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v: %q", err, req.Key)})
		return
	}
	c.JSON(http.StatusOK, dtos.NewDraftView(s.Snapshot()))
}

func (h *FormHandler) SetJobDescription(c *gin.Context) {
	var req dtos.JobDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	s := h.session(c)
	s.SetJobDescription(*req.JobDescription)
	c.JSON(http.StatusOK, dtos.NewDraftView(s.Snapshot()))
}

// UploadFile selects the resume. Only .doc and .docx pass the filter.
func (h *FormHandler) UploadFile(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "resume file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing multipart part \"file\""})
		return
	}
	if !models.IsAcceptedResume(fh.Filename) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": models.ErrUnsupportedFile.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload: " + err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload: " + err.Error()})
		return
	}

	file, err := models.NewResumeFile(fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}
	s := h.session(c)
	s.SetFile(file)
	c.JSON(http.StatusOK, dtos.NewDraftView(s.Snapshot()))
}

func (h *FormHandler) ClearFile(c *gin.Context) {
	s := h.session(c)
	s.SetFile(nil)
	c.JSON(http.StatusOK, dtos.NewDraftView(s.Snapshot()))
}

// Submit is the POST /submit/:variant endpoint. It blocks until the document
// service answers, then hands back a one-shot download link.
func (h *FormHandler) Submit(c *gin.Context) {
	variant, err := models.ParseVariant(c.Param("variant"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	dl := services.NewStagingDownloader(h.Staging)
	err = h.Dispatcher.Submit(c.Request.Context(), h.session(c), variant, dl)

	var verr *services.ValidationError
	var terr *services.TransportError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dtos.SubmitResponse{
			DownloadURL: h.Staging.URL(dl.Token),
			Filename:    dl.Filename,
		})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
	case errors.Is(err, services.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &terr):
		c.JSON(http.StatusBadGateway, gin.H{"error": terr.UserMessage()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": variant.FailureMessage()})
	}
}

// Download serves a staged document once and releases it.
func (h *FormHandler) Download(c *gin.Context) {
	doc, err := h.Staging.Take(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, services.ErrDownloadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load download: " + err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// ListSubmissions lists the caller's recent submissions from the submission log.
func (h *FormHandler) ListSubmissions(c *gin.Context) {
	records, err := h.History.ListForSession(c.Request.Context(), auth.SessionID(c), historyLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func submitLabel(v models.Variant) string {
	if v == models.VariantResume {
		return "Improve Resume"
	}
	return "Generate Cover Letter"
}

type formField struct {
	Key         string
	Type        string
	Placeholder string
	Section     string
}

var formFields = []formField{
	{models.FieldFullName, "text", "Full Name", "Your Information"},
	{models.FieldEmail, "email", "Email Address", "Your Information"},
	{models.FieldPhone, "tel", "Phone Number", "Your Information"},
	{models.FieldAddress, "text", "Your Address", "Your Information"},
	{models.FieldPositionTitle, "text", "Position Title (e.g., Software Engineer)", "Company Information"},
	{models.FieldCompanyName, "text", "Company Name", "Company Information"},
	{models.FieldHiringManagerName, "text", "Hiring Manager Name (optional)", "Company Information"},
	{models.FieldHiringManagerTitle, "text", "Hiring Manager Title (optional)", "Company Information"},
	{models.FieldCompanyAddress, "text", "Company Address (optional)", "Company Information"},
	{models.FieldHowHeardAbout, "text", "How did you hear about this position?", "Company Information"},
}
