package models_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/justsurfingit/cover-letter-studio/internal/models"
)

func filledInfo() models.PersonalInfo {
	return models.PersonalInfo{
		FullName:           "Ada Lovelace",
		Address:            "12 St James's Square, London",
		Phone:              "+44 20 7946 0000",
		Email:              "ada@example.com",
		HiringManagerName:  "Charles Babbage",
		HiringManagerTitle: "Head of Engineering",
		CompanyName:        "Analytical Engines Ltd",
		CompanyAddress:     "1 Difference Way",
		PositionTitle:      "Software Engineer",
		HowHeardAbout:      "LinkedIn",
	}
}

// ── Field isolation ─────────────────────────────────────────────────────────

func TestDraftWithField_OnlyTouchesThatKey(t *testing.T) {
	for _, key := range models.PersonalInfoFields {
		before := models.Draft{PersonalInfo: filledInfo(), JobDescription: "Go developer"}

		after, err := before.WithField(key, "changed")
		if err != nil {
			t.Fatalf("WithField(%q) returned error: %v", key, err)
		}

		got, _ := after.PersonalInfo.Get(key)
		if got != "changed" {
			t.Errorf("WithField(%q): value = %q, want %q", key, got, "changed")
		}

		for _, other := range models.PersonalInfoFields {
			if other == key {
				continue
			}
			want, _ := before.PersonalInfo.Get(other)
			have, _ := after.PersonalInfo.Get(other)
			if have != want {
				t.Errorf("WithField(%q) changed %q: %q -> %q", key, other, want, have)
			}
		}
		if after.JobDescription != before.JobDescription {
			t.Errorf("WithField(%q) changed the job description", key)
		}
	}
}

func TestDraftWithField_DoesNotMutateReceiver(t *testing.T) {
	before := models.Draft{PersonalInfo: filledInfo()}
	_, _ = before.WithField(models.FieldEmail, "other@example.com")

	if before.PersonalInfo.Email != "ada@example.com" {
		t.Errorf("receiver mutated: email = %q", before.PersonalInfo.Email)
	}
}

func TestDraftWithField_UnknownKey(t *testing.T) {
	before := models.Draft{PersonalInfo: filledInfo()}
	after, err := before.WithField("favouriteColour", "blue")
	if !errors.Is(err, models.ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
	if !reflect.DeepEqual(after, before) {
		t.Error("draft changed on unknown key")
	}
}

// ── File and job description ───────────────────────────────────────────────

func TestDraftWithFile_ReplacesAndClears(t *testing.T) {
	first := &models.ResumeFile{Name: "a.docx"}
	second := &models.ResumeFile{Name: "b.docx"}

	d := models.Draft{}.WithFile(first).WithFile(second)
	if d.File != second {
		t.Errorf("File = %v, want the second selection", d.File)
	}
	if d = d.WithFile(nil); d.File != nil {
		t.Error("WithFile(nil) should clear the selection")
	}
}

func TestDraftReady(t *testing.T) {
	file := &models.ResumeFile{Name: "cv.docx", Data: []byte("x")}
	cases := []struct {
		name string
		d    models.Draft
		want bool
	}{
		{"empty", models.Draft{}, false},
		{"file only", models.Draft{File: file}, false},
		{"file and blank description", models.Draft{File: file, JobDescription: " \n\t "}, false},
		{"description only", models.Draft{JobDescription: "Backend role"}, false},
		{"file and description", models.Draft{File: file, JobDescription: "Backend role"}, true},
	}
	for _, c := range cases {
		if got := c.d.Ready(); got != c.want {
			t.Errorf("%s: Ready() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNewResumeFile_Filter(t *testing.T) {
	accepted := []string{"cv.doc", "cv.docx", "CV.DOCX", "my.resume.Docx"}
	for _, name := range accepted {
		f, err := models.NewResumeFile(name, "", []byte("data"))
		if err != nil {
			t.Errorf("NewResumeFile(%q) unexpected error: %v", name, err)
			continue
		}
		if f.ContentType == "" {
			t.Errorf("NewResumeFile(%q) left content type empty", name)
		}
	}

	rejected := []string{"cv.pdf", "cv.txt", "cv", "docx", "cv.docx.exe"}
	for _, name := range rejected {
		if _, err := models.NewResumeFile(name, "", nil); !errors.Is(err, models.ErrUnsupportedFile) {
			t.Errorf("NewResumeFile(%q) err = %v, want ErrUnsupportedFile", name, err)
		}
	}
}

func TestNewResumeFile_KeepsClientContentType(t *testing.T) {
	f, err := models.NewResumeFile("cv.doc", "application/msword", nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.ContentType != "application/msword" {
		t.Errorf("ContentType = %q", f.ContentType)
	}
}

// ── Recommended fields ──────────────────────────────────────────────────────

func TestMissingRecommended(t *testing.T) {
	if got := filledInfo().MissingRecommended(); len(got) != 0 {
		t.Errorf("filled info: MissingRecommended() = %v, want none", got)
	}

	want := []string{"fullName", "phone", "email", "companyName", "positionTitle"}
	if got := (models.PersonalInfo{}).MissingRecommended(); !reflect.DeepEqual(got, want) {
		t.Errorf("empty info: MissingRecommended() = %v, want %v", got, want)
	}

	partial := models.PersonalInfo{FullName: "Ada", Email: "ada@example.com", Address: "London"}
	want = []string{"phone", "companyName", "positionTitle"}
	if got := partial.MissingRecommended(); !reflect.DeepEqual(got, want) {
		t.Errorf("partial info: MissingRecommended() = %v, want %v", got, want)
	}
}

// ── Variants ───────────────────────────────────────────────────────────────

func TestVariants(t *testing.T) {
	cases := []struct {
		raw      string
		endpoint string
		filename string
		personal bool
	}{
		{"cover-letter", "/generate_cover_letter", "Cover_Letter.docx", true},
		{"resume", "/improve_resume", "Improved_Resume.docx", false},
	}
	for _, c := range cases {
		v, err := models.ParseVariant(c.raw)
		if err != nil {
			t.Fatalf("ParseVariant(%q): %v", c.raw, err)
		}
		if v.Endpoint() != c.endpoint {
			t.Errorf("%s endpoint = %q, want %q", c.raw, v.Endpoint(), c.endpoint)
		}
		if v.Filename() != c.filename {
			t.Errorf("%s filename = %q, want %q", c.raw, v.Filename(), c.filename)
		}
		if v.SendsPersonalInfo() != c.personal {
			t.Errorf("%s SendsPersonalInfo = %v", c.raw, v.SendsPersonalInfo())
		}
	}

	for _, bad := range []string{"", "Cover-Letter", "resume ", "letter"} {
		if _, err := models.ParseVariant(bad); !errors.Is(err, models.ErrUnknownVariant) {
			t.Errorf("ParseVariant(%q) err = %v, want ErrUnknownVariant", bad, err)
		}
	}
}
