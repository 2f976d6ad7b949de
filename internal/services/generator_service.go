package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/justsurfingit/cover-letter-studio/internal/models"
)

// Multipart part names understood by the document service.
const (
	PartFile           = "file"
	PartJobDescription = "jobDescription"
	PartPersonalInfo   = "personalInfo"
)

// GeneratorService talks to the external document service. One Generate call
// is one POST; there are no retries.
type GeneratorService struct {
	BaseURL  string
	MaxBytes int64
	client   *http.Client
}

// NewGeneratorService builds a client for the service at baseURL.
// timeout bounds the whole exchange, maxBytes bounds the returned document.
func NewGeneratorService(baseURL string, timeout time.Duration, maxBytes int64) *GeneratorService {
	return &GeneratorService{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		MaxBytes: maxBytes,
		client:   &http.Client{Timeout: timeout},
	}
}

// Generate posts the draft for variant and returns the document body.
// Any network failure or non-2xx status comes back as a *TransportError.
func (s *GeneratorService) Generate(ctx context.Context, variant models.Variant, draft models.Draft) (*models.Document, error) {
	if draft.File == nil {
		return nil, &ValidationError{Msg: MissingInputMessage}
	}

	body, contentType, err := EncodeSubmission(variant, draft)
	if err != nil {
		return nil, fmt.Errorf("encode %s submission: %w", variant, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+variant.Endpoint(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Variant: variant, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// body is not interpreted; drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &TransportError{Variant: variant, StatusCode: resp.StatusCode}
	}

	reader := io.Reader(resp.Body)
	if s.MaxBytes > 0 {
		reader = io.LimitReader(resp.Body, s.MaxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &TransportError{Variant: variant, Err: fmt.Errorf("read body: %w", err)}
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return nil, &TransportError{Variant: variant, Err: ErrDocumentTooLarge}
	}

	return &models.Document{
		Filename:    variant.Filename(),
		ContentType: models.DocxContentType,
		Data:        data,
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// EncodeSubmission builds the multipart body for variant: the resume under
// "file", the job description as entered under "jobDescription" and, for the
// cover letter only, the personal info as JSON under "personalInfo".
func EncodeSubmission(variant models.Variant, draft models.Draft) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, PartFile, quoteEscaper.Replace(draft.File.Name)))
	ct := draft.File.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(draft.File.Data); err != nil {
		return nil, "", err
	}

	if err := mw.WriteField(PartJobDescription, draft.JobDescription); err != nil {
		return nil, "", err
	}

	if variant.SendsPersonalInfo() {
		info, err := json.Marshal(draft.PersonalInfo)
		if err != nil {
			return nil, "", err
		}
		if err := mw.WriteField(PartPersonalInfo, string(info)); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
