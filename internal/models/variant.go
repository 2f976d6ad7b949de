package models

// Variant selects one of the two submission flows. Both go through the same
// dispatcher and differ only in endpoint, payload and output filename.
type Variant string

const (
	VariantCoverLetter Variant = "cover-letter"
	VariantResume      Variant = "resume"
)

func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	switch v {
	case VariantCoverLetter, VariantResume:
		return v, nil
	}
	return "", ErrUnknownVariant
}

// Endpoint is the path on the document service.
func (v Variant) Endpoint() string {
	if v == VariantResume {
		return "/improve_resume"
	}
	return "/generate_cover_letter"
}

// Filename is the fixed name the returned document is saved under.
func (v Variant) Filename() string {
	if v == VariantResume {
		return "Improved_Resume.docx"
	}
	return "Cover_Letter.docx"
}

// SendsPersonalInfo is true only for the cover letter flow.
func (v Variant) SendsPersonalInfo() bool { return v == VariantCoverLetter }

func (v Variant) Title() string {
	if v == VariantResume {
		return "Resume Improver"
	}
	return "Cover Letter Generator"
}

// FailureMessage is shown to the user when the document service call fails.
func (v Variant) FailureMessage() string {
	if v == VariantResume {
		return "Error improving resume. Please try again."
	}
	return "Error generating cover letter. Please try again."
}
