package models

import (
	"bytes"

	"github.com/dmitrijs2005/jarcover/internal/client/money"
	"github.com/google/uuid"
)

// Point is an offset in points.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by o.
func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

// Size is a width/height pair in points.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Image is the selected photo with its placement inside a template slot.
type Image struct {
	Raw           []byte  `json:"raw"`
	Offset        Point   `json:"offset"`
	Scale         float64 `json:"scale"`
	ReferenceSize Size    `json:"referenceSize"`
}

// NewImage wraps raw photo bytes with the identity transform.
func NewImage(raw []byte) *Image {
	return &Image{Raw: raw, Scale: 1}
}

func (i *Image) equal(o *Image) bool {
	if i == nil || o == nil {
		return i == o
	}
	return bytes.Equal(i.Raw, o.Raw) &&
		i.Offset == o.Offset &&
		i.Scale == o.Scale &&
		i.ReferenceSize == o.ReferenceSize
}

// GradientKind names a background gradient style.
type GradientKind string

// PlacementKind names where the photo sits inside a template.
type PlacementKind string

// Template is a decorative style applied to a cover.
type Template struct {
	Name      string        `json:"name" yaml:"name"`
	Gradient  GradientKind  `json:"gradientKind" yaml:"gradient"`
	Placement PlacementKind `json:"imagePlacementKind" yaml:"placement"`
}

// ID identifies the visual style. Templates sharing gradient and placement
// share an ID regardless of name.
func (t Template) ID() string {
	return string(t.Gradient) + string(t.Placement)
}

// JarStatusActive is the status of a jar still accepting donations.
const JarStatusActive = "ACTIVE"

// JarDetails is a snapshot of a donation jar.
type JarDetails struct {
	// Amount collected, in minor units.
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

func (d JarDetails) AmountInMajorUnits() float64 { return money.ToMajor(d.Amount) }

func (d JarDetails) IsActive() bool { return d.Status == JarStatusActive }

// Jar links a campaign to a donation jar.
type Jar struct {
	Link    string      `json:"link"`
	Details *JarDetails `json:"details,omitempty"`
}

// Campaign is a single fundraising record.
//
// Values are passed around by copy; pointer fields are replaced, never
// mutated in place, so copies do not observe each other's edits.
type Campaign struct {
	ID       uuid.UUID `json:"id"`
	Image    *Image    `json:"image,omitempty"`
	Template *Template `json:"template,omitempty"`
	Purpose  string    `json:"purpose"`
	// Target amount in minor units.
	Target *int64 `json:"target,omitempty"`
	Jar    *Jar   `json:"jar,omitempty"`

	// targetText is the last raw target input, kept even when unparsable.
	targetText string
}

// NewCampaign returns an empty campaign with the given id.
func NewCampaign(id uuid.UUID) Campaign {
	return Campaign{ID: id}
}

// Equal compares persisted fields. Raw target input is ignored.
func (c Campaign) Equal(o Campaign) bool {
	if c.ID != o.ID || c.Purpose != o.Purpose {
		return false
	}
	if !c.Image.equal(o.Image) {
		return false
	}
	if (c.Template == nil) != (o.Template == nil) || (c.Template != nil && *c.Template != *o.Template) {
		return false
	}
	if (c.Target == nil) != (o.Target == nil) || (c.Target != nil && *c.Target != *o.Target) {
		return false
	}
	return jarEqual(c.Jar, o.Jar)
}

func jarEqual(a, b *Jar) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Link != b.Link {
		return false
	}
	if a.Details == nil || b.Details == nil {
		return a.Details == b.Details
	}
	return *a.Details == *b.Details
}

// FormattedTarget returns the raw text last entered for the target or, when
// nothing was typed, the target rendered in the given format.
func (c Campaign) FormattedTarget(f money.Format) string {
	if c.targetText != "" {
		return c.targetText
	}
	if c.Target != nil {
		return f.FormatAmount(*c.Target)
	}
	return ""
}

// SetFormattedTarget records raw input and updates Target with its parsed
// value. Unparsable or empty input clears Target but the raw text is kept.
func (c *Campaign) SetFormattedTarget(text string, f money.Format) {
	c.targetText = text
	if text == "" {
		c.Target = nil
		return
	}
	v, err := f.Parse(text)
	if err != nil {
		c.Target = nil
		return
	}
	c.Target = &v
}

// JarLink returns the jar link or "".
func (c Campaign) JarLink() string {
	if c.Jar == nil {
		return ""
	}
	return c.Jar.Link
}

// SetJarLink replaces the jar. Details are kept only when the link is
// unchanged.
func (c *Campaign) SetJarLink(link string) {
	if link == "" {
		c.Jar = nil
		return
	}
	if c.Jar != nil && c.Jar.Link == link {
		return
	}
	c.Jar = &Jar{Link: link}
}

// SetJarDetails replaces the jar snapshot. It is a no-op without a jar.
func (c *Campaign) SetJarDetails(d *JarDetails) {
	if c.Jar == nil {
		return
	}
	jar := Jar{Link: c.Jar.Link}
	if d != nil {
		cp := *d
		jar.Details = &cp
	}
	c.Jar = &jar
}

// SetImage replaces the photo and resets its placement.
func (c *Campaign) SetImage(raw []byte) {
	if raw == nil {
		c.Image = nil
		return
	}
	c.Image = NewImage(raw)
}

// SetTransform replaces the image placement. It is a no-op without an image.
func (c *Campaign) SetTransform(scale float64, offset Point, reference Size) {
	if c.Image == nil {
		return
	}
	img := *c.Image
	img.Scale = scale
	img.Offset = offset
	img.ReferenceSize = reference
	c.Image = &img
}

// SetTemplate replaces the template.
func (c *Campaign) SetTemplate(t *Template) {
	if t == nil {
		c.Template = nil
		return
	}
	cp := *t
	c.Template = &cp
}

// Progress returns collected/target when both are known.
func (c Campaign) Progress() (float64, bool) {
	if c.Target == nil || *c.Target <= 0 || c.Jar == nil || c.Jar.Details == nil {
		return 0, false
	}
	return float64(c.Jar.Details.Amount) / float64(*c.Target), true
}
