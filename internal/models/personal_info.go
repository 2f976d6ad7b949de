package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PersonalInfo holds the candidate and company details of the cover letter form.
// The json keys are the ones the document service expects in "personalInfo".
type PersonalInfo struct {
	FullName           string `json:"fullName" validate:"required"`
	Address            string `json:"address"`
	Phone              string `json:"phone" validate:"required"`
	Email              string `json:"email" validate:"required"`
	HiringManagerName  string `json:"hiringManagerName"`
	HiringManagerTitle string `json:"hiringManagerTitle"`
	CompanyName        string `json:"companyName" validate:"required"`
	CompanyAddress     string `json:"companyAddress"`
	PositionTitle      string `json:"positionTitle" validate:"required"`
	HowHeardAbout      string `json:"howHeardAbout"`
}

// Field keys accepted by PersonalInfo.With, in form order.
const (
	FieldFullName           = "fullName"
	FieldAddress            = "address"
	FieldPhone              = "phone"
	FieldEmail              = "email"
	FieldHiringManagerName  = "hiringManagerName"
	FieldHiringManagerTitle = "hiringManagerTitle"
	FieldCompanyName        = "companyName"
	FieldCompanyAddress     = "companyAddress"
	FieldPositionTitle      = "positionTitle"
	FieldHowHeardAbout      = "howHeardAbout"
)

var PersonalInfoFields = []string{
	FieldFullName,
	FieldAddress,
	FieldPhone,
	FieldEmail,
	FieldHiringManagerName,
	FieldHiringManagerTitle,
	FieldCompanyName,
	FieldCompanyAddress,
	FieldPositionTitle,
	FieldHowHeardAbout,
}

func (p *PersonalInfo) field(key string) *string {
	switch key {
	case FieldFullName:
		return &p.FullName
	case FieldAddress:
		return &p.Address
	case FieldPhone:
		return &p.Phone
	case FieldEmail:
		return &p.Email
	case FieldHiringManagerName:
		return &p.HiringManagerName
	case FieldHiringManagerTitle:
		return &p.HiringManagerTitle
	case FieldCompanyName:
		return &p.CompanyName
	case FieldCompanyAddress:
		return &p.CompanyAddress
	case FieldPositionTitle:
		return &p.PositionTitle
	case FieldHowHeardAbout:
		return &p.HowHeardAbout
	}
	return nil
}

// With returns a copy of p with only key set to value.
func (p PersonalInfo) With(key, value string) (PersonalInfo, error) {
	f := p.field(key)
	if f == nil {
		return p, ErrUnknownField
	}
	*f = value
	return p, nil
}

// Get returns the value stored under key.
func (p PersonalInfo) Get(key string) (string, error) {
	f := p.field(key)
	if f == nil {
		return "", ErrUnknownField
	}
	return *f, nil
}

var recommended = newRecommendedValidator()

func newRecommendedValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// MissingRecommended lists the fields the form marks as required but which are
// still empty. It is a hint for the view; submission is never blocked on it.
func (p PersonalInfo) MissingRecommended() []string {
	err := recommended.Struct(p)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}
