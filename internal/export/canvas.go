package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/jask/photobooth/internal/frame"
)

// stripRadius is the corner radius of the strip container at scale 1.
const stripRadius = 8

// Canvas composites strips in pure Go.
type Canvas struct {
	Width int // strip width before scaling
	Scale int
}

// NewCanvas returns a canvas rasterizer with default width and scale.
func NewCanvas() *Canvas {
	return &Canvas{Width: DefaultWidth, Scale: DefaultScale}
}

func (c *Canvas) Rasterize(ctx context.Context, s Strip) (image.Image, error) {
	k := c.Scale
	if k <= 0 {
		k = DefaultScale
	}
	width := c.Width
	if width <= 0 {
		width = DefaultWidth
	}
	f := s.Layout()
	f.Style = f.Style.Scaled(k)
	width *= k

	stops, err := f.Style.BackgroundColors()
	if err != nil {
		return nil, err
	}
	size := f.Size(width)
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	bounds := dst.Bounds()
	draw.DrawMask(dst, bounds, gradient{bounds: bounds, stops: stops}, image.Point{}, roundedMask{r: bounds, radius: stripRadius * k}, image.Point{}, draw.Over)

	border := color.RGBA{}
	if f.Style.BorderColor != "" {
		if border, err = frame.ParseHex(f.Style.BorderColor); err != nil {
			return nil, err
		}
	}

	for i, slot := range f.Slots(width) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := s.Photos[i].Decode()
		if err != nil {
			return nil, fmt.Errorf("photo %d: %w", i+1, err)
		}
		radius := f.Style.SlotRadius
		if f.Style.Shadow {
			shadow := slot.Add(image.Pt(0, 3*k))
			draw.DrawMask(dst, shadow, image.NewUniform(color.NRGBA{A: 0x50}), image.Point{}, roundedMask{r: shadow, radius: radius}, shadow.Min, draw.Over)
		}
		inner := slot
		if b := f.Style.Border; b > 0 {
			draw.DrawMask(dst, slot, image.NewUniform(border), image.Point{}, roundedMask{r: slot, radius: radius}, slot.Min, draw.Over)
			inner = slot.Inset(b)
			radius -= b
		}
		drawCover(dst, inner, img, radius)
	}
	return dst, nil
}

// drawCover scales src to fill r, cropping the overflow evenly, like CSS
// object-fit: cover.
func drawCover(dst *image.RGBA, r image.Rectangle, src image.Image, radius int) {
	if r.Empty() {
		return
	}
	sb := src.Bounds()
	var crop image.Rectangle
	// compare aspect ratios without floats: sw/sh vs rw/rh
	if sb.Dx()*r.Dy() > r.Dx()*sb.Dy() {
		w := sb.Dy() * r.Dx() / r.Dy()
		x0 := sb.Min.X + (sb.Dx()-w)/2
		crop = image.Rect(x0, sb.Min.Y, x0+w, sb.Max.Y)
	} else {
		h := sb.Dx() * r.Dy() / r.Dx()
		y0 := sb.Min.Y + (sb.Dy()-h)/2
		crop = image.Rect(sb.Min.X, y0, sb.Max.X, y0+h)
	}
	tmp := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	xdraw.CatmullRom.Scale(tmp, tmp.Bounds(), src, crop, xdraw.Src, nil)
	draw.DrawMask(dst, r, tmp, image.Point{}, roundedMask{r: r, radius: radius}, r.Min, draw.Over)
}

// gradient fills with one colour, or a top-left to bottom-right blend of two.
type gradient struct {
	bounds image.Rectangle
	stops  []color.RGBA
}

func (g gradient) ColorModel() color.Model { return color.RGBAModel }
func (g gradient) Bounds() image.Rectangle { return g.bounds }

func (g gradient) At(x, y int) color.Color {
	if len(g.stops) == 1 {
		return g.stops[0]
	}
	a, b := g.stops[0], g.stops[1]
	span := g.bounds.Dx() + g.bounds.Dy() - 2
	if span <= 0 {
		return a
	}
	t := (x - g.bounds.Min.X) + (y - g.bounds.Min.Y)
	mix := func(p, q uint8) uint8 { return uint8((int(p)*(span-t) + int(q)*t) / span) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// roundedMask is opaque inside r with corners cut at radius.
type roundedMask struct {
	r      image.Rectangle
	radius int
}

func (m roundedMask) ColorModel() color.Model { return color.AlphaModel }
func (m roundedMask) Bounds() image.Rectangle { return m.r }

func (m roundedMask) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(m.r) {
		return color.Alpha{}
	}
	rad := m.radius
	if limit := min(m.r.Dx(), m.r.Dy()) / 2; rad > limit {
		rad = limit
	}
	if rad <= 0 {
		return color.Alpha{A: 0xff}
	}
	cx, cy := x, y
	switch {
	case x < m.r.Min.X+rad:
		cx = m.r.Min.X + rad
	case x >= m.r.Max.X-rad:
		cx = m.r.Max.X - rad - 1
	}
	switch {
	case y < m.r.Min.Y+rad:
		cy = m.r.Min.Y + rad
	case y >= m.r.Max.Y-rad:
		cy = m.r.Max.Y - rad - 1
	}
	dx, dy := x-cx, y-cy
	if dx*dx+dy*dy > rad*rad {
		return color.Alpha{}
	}
	return color.Alpha{A: 0xff}
}
