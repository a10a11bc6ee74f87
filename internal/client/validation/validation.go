// Package validation computes field and form errors for a campaign draft.
// Every function is pure.
package validation

import (
	"net/url"

	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/client/money"
)

// Code is a single validation failure.
type Code int

const (
	Empty Code = iota + 1
	InvalidFormat
	InvalidURL
	MissingImage
	MissingTemplate
)

func (c Code) String() string {
	switch c {
	case Empty:
		return "must not be empty"
	case InvalidFormat:
		return "invalid number format"
	case InvalidURL:
		return "invalid URL"
	case MissingImage:
		return "image is required"
	case MissingTemplate:
		return "template is required"
	default:
		return "unknown"
	}
}

// Field names an editable form field.
type Field int

const (
	FieldNone Field = iota
	FieldName
	FieldTarget
	FieldLink
	FieldImage
	FieldTemplate
)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldTarget:
		return "target"
	case FieldLink:
		return "link"
	case FieldImage:
		return "image"
	case FieldTemplate:
		return "template"
	default:
		return "none"
	}
}

// ParseField maps a field name to a Field; unknown names give FieldNone.
func ParseField(s string) Field {
	for _, f := range []Field{FieldName, FieldTarget, FieldLink, FieldImage, FieldTemplate} {
		if f.String() == s {
			return f
		}
	}
	return FieldNone
}

// Errors groups codes per field.
type Errors struct {
	Name     []Code
	Target   []Code
	Link     []Code
	Image    []Code
	Template []Code
}

func (e Errors) IsEmpty() bool {
	return len(e.Name) == 0 &&
		len(e.Target) == 0 &&
		len(e.Link) == 0 &&
		len(e.Image) == 0 &&
		len(e.Template) == 0
}

// For returns the codes recorded for f.
func (e Errors) For(f Field) []Code {
	switch f {
	case FieldName:
		return e.Name
	case FieldTarget:
		return e.Target
	case FieldLink:
		return e.Link
	case FieldImage:
		return e.Image
	case FieldTemplate:
		return e.Template
	default:
		return nil
	}
}

// Set replaces the codes for f and returns the updated copy.
func (e Errors) Set(f Field, codes []Code) Errors {
	switch f {
	case FieldName:
		e.Name = codes
	case FieldTarget:
		e.Target = codes
	case FieldLink:
		e.Link = codes
	case FieldImage:
		e.Image = codes
	case FieldTemplate:
		e.Template = codes
	}
	return e
}

func ValidateName(text string) []Code {
	if text == "" {
		return []Code{Empty}
	}
	return nil
}

// ValidateTarget accepts empty text or a number in the locale of f.
func ValidateTarget(text string, f money.Format) []Code {
	if text == "" {
		return nil
	}
	if _, err := f.Parse(text); err != nil {
		return []Code{InvalidFormat}
	}
	return nil
}

// ValidateLink accepts empty text or a URL with both scheme and host.
func ValidateLink(text string) []Code {
	if text == "" {
		return nil
	}
	u, err := url.Parse(text)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return []Code{InvalidURL}
	}
	return nil
}

func ValidateImage(img *models.Image) []Code {
	if img == nil {
		return []Code{MissingImage}
	}
	return nil
}

func ValidateTemplate(t *models.Template) []Code {
	if t == nil {
		return []Code{MissingTemplate}
	}
	return nil
}

// ValidateField validates the projection of c that backs field.
func ValidateField(field Field, c models.Campaign, f money.Format) []Code {
	switch field {
	case FieldName:
		return ValidateName(c.Purpose)
	case FieldTarget:
		return ValidateTarget(c.FormattedTarget(f), f)
	case FieldLink:
		return ValidateLink(c.JarLink())
	case FieldImage:
		return ValidateImage(c.Image)
	case FieldTemplate:
		return ValidateTemplate(c.Template)
	default:
		return nil
	}
}

// ValidateForm runs every field validator.
func ValidateForm(c models.Campaign, f money.Format) Errors {
	return Errors{
		Name:     ValidateField(FieldName, c, f),
		Target:   ValidateField(FieldTarget, c, f),
		Link:     ValidateField(FieldLink, c, f),
		Image:    ValidateField(FieldImage, c, f),
		Template: ValidateField(FieldTemplate, c, f),
	}
}
