// Package transform tracks drag and pinch gestures over a photo placed in
// a template slot.
package transform

import "github.com/dmitrijs2005/jarcover/internal/client/models"

// MinScale is the smallest scale a pinch can produce.
const MinScale = 0.1

// EndFunc receives the committed transform when a gesture ends.
type EndFunc func(scale float64, offset models.Point, container models.Size)

// Controller holds live gesture state. It never owns the campaign: results
// leave only through the EndFunc.
type Controller struct {
	offset    models.Point
	dragStart models.Point
	scale     float64
	container models.Size
	onEnd     EndFunc
}

func New(offset models.Point, scale float64, container models.Size, onEnd EndFunc) *Controller {
	return &Controller{
		offset:    offset,
		dragStart: offset,
		scale:     clamp(scale),
		container: container,
		onEnd:     onEnd,
	}
}

// FromImage seeds a controller from an image placement. A nil image gives
// the identity transform.
func FromImage(img *models.Image, container models.Size, onEnd EndFunc) *Controller {
	if img == nil {
		return New(models.Point{}, 1, container, onEnd)
	}
	return New(img.Offset, img.Scale, container, onEnd)
}

func (c *Controller) Offset() models.Point   { return c.offset }
func (c *Controller) Scale() float64         { return c.scale }
func (c *Controller) Container() models.Size { return c.container }

// DragChanged moves the photo by the translation accumulated since the
// gesture started.
func (c *Controller) DragChanged(translation models.Point) {
	c.offset = c.dragStart.Add(translation)
}

// DragEnded commits the offset and reports the transform.
func (c *Controller) DragEnded() {
	c.dragStart = c.offset
	c.emit()
}

func (c *Controller) MagnifyChanged(value float64) {
	c.scale = clamp(value)
}

func (c *Controller) MagnifyEnded(value float64) {
	c.scale = clamp(value)
	c.emit()
}

// Update overwrites live gesture state with an externally changed seed.
func (c *Controller) Update(offset models.Point, scale float64) {
	c.offset = offset
	c.dragStart = offset
	c.scale = clamp(scale)
}

// Resize records a new container size.
func (c *Controller) Resize(container models.Size) {
	c.container = container
}

func (c *Controller) emit() {
	if c.onEnd != nil {
		c.onEnd(c.scale, c.offset, c.container)
	}
}

func clamp(v float64) float64 {
	// NaN compares false both ways and would slip through max.
	if v != v || v < MinScale {
		return MinScale
	}
	return v
}
