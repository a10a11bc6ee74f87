package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/jarcover/internal/client/models"
	xdraw "golang.org/x/image/draw"
)

const (
	CoverWidth  = 1080
	CoverHeight = 1350
)

var ErrCampaignNotReadyForRender = errors.New("campaign is not ready for render")

type gradient struct{ top, bottom color.RGBA }

var gradients = map[models.GradientKind]gradient{
	"blueYellow": {color.RGBA{0x00, 0x57, 0xB7, 0xFF}, color.RGBA{0xFF, 0xD7, 0x00, 0xFF}},
	"sunset":     {color.RGBA{0xFF, 0x5F, 0x6D, 0xFF}, color.RGBA{0xFF, 0xC3, 0x71, 0xFF}},
	"forest":     {color.RGBA{0x13, 0x4E, 0x5E, 0xFF}, color.RGBA{0x71, 0xB2, 0x80, 0xFF}},
	"night":      {color.RGBA{0x0F, 0x20, 0x27, 0xFF}, color.RGBA{0x2C, 0x53, 0x64, 0xFF}},
	"steel":      {color.RGBA{0x43, 0x4B, 0x56, 0xFF}, color.RGBA{0xBD, 0xC3, 0xC7, 0xFF}},
}

var defaultGradient = gradient{color.RGBA{0x33, 0x33, 0x33, 0xFF}, color.RGBA{0x99, 0x99, 0x99, 0xFF}}

// slot returns the photo area of a placement inside a w x h cover.
func slot(p models.PlacementKind, w, h int) image.Rectangle {
	m := w / 18
	switch p {
	case "top":
		return image.Rect(m, m, w-m, h*5/8)
	case "bottom":
		return image.Rect(m, h*3/8, w-m, h-m)
	case "framed":
		return image.Rect(2*m, 2*m, w-2*m, h-2*m)
	case "full":
		return image.Rect(0, 0, w, h)
	default:
		return image.Rect(m+m/2, h/6, w-m-m/2, h*5/6)
	}
}

// Renderer composes a campaign into a fixed-size cover bitmap.
type Renderer struct {
	Width  int
	Height int
}

func NewRenderer() *Renderer {
	return &Renderer{Width: CoverWidth, Height: CoverHeight}
}

func (r *Renderer) Render(ctx context.Context, c models.Campaign) (image.Image, error) {
	if c.Template == nil || c.Image == nil {
		return nil, ErrCampaignNotReadyForRender
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(c.Image.Raw))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}

	w, h := r.Width, r.Height
	if w <= 0 || h <= 0 {
		w, h = CoverWidth, CoverHeight
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	g, ok := gradients[c.Template.Gradient]
	if !ok {
		g = defaultGradient
	}
	paintGradient(dst, g)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	area := slot(c.Template.Placement, w, h)
	target := placePhoto(src.Bounds(), area, c.Image)
	clip := dst.SubImage(area).(*image.RGBA)
	xdraw.CatmullRom.Scale(clip, target, src, src.Bounds(), xdraw.Over, nil)

	return dst, nil
}

func paintGradient(dst *image.RGBA, g gradient) {
	b := dst.Bounds()
	span := float64(b.Dy() - 1)
	if span <= 0 {
		span = 1
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / span
		c := color.RGBA{
			R: lerp(g.top.R, g.bottom.R, t),
			G: lerp(g.top.G, g.bottom.G, t),
			B: lerp(g.top.B, g.bottom.B, t),
			A: 0xFF,
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetRGBA(x, y, c)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// placePhoto aspect-fills the photo into area, then applies the user's
// scale and offset. The offset was measured in a container of
// ReferenceSize points and is rescaled to cover pixels.
func placePhoto(src, area image.Rectangle, img *models.Image) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	aw, ah := float64(area.Dx()), float64(area.Dy())
	if sw == 0 || sh == 0 {
		return area
	}

	scale := img.Scale
	if scale <= 0 {
		scale = 1
	}
	fill := math.Max(aw/sw, ah/sh) * scale
	dw, dh := sw*fill, sh*fill

	kx, ky := 1.0, 1.0
	if img.ReferenceSize.Width > 0 {
		kx = aw / img.ReferenceSize.Width
	}
	if img.ReferenceSize.Height > 0 {
		ky = ah / img.ReferenceSize.Height
	}

	cx := float64(area.Min.X) + aw/2 + img.Offset.X*kx
	cy := float64(area.Min.Y) + ah/2 + img.Offset.Y*ky

	return image.Rect(
		int(math.Round(cx-dw/2)),
		int(math.Round(cy-dh/2)),
		int(math.Round(cx+dw/2)),
		int(math.Round(cy+dh/2)),
	)
}
