// Package frame holds the fixed catalog of photo strip layouts.
package frame

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// Category groups frames in the selector.
type Category string

const (
	CategoryNormal  Category = "normal"
	CategorySpecial Category = "special"
)

// Label is the human readable category name.
func (c Category) Label() string {
	switch c {
	case CategoryNormal:
		return "Normal frame"
	case CategorySpecial:
		return "Special frame"
	default:
		return string(c)
	}
}

// Layout is how slots are arranged inside the strip.
type Layout string

const (
	LayoutVertical Layout = "vertical"
	LayoutGrid     Layout = "grid"
)

// gridColumns is the column count for LayoutGrid.
const gridColumns = 2

// Frame is one selectable layout. Values are copied out of the catalog and
// never mutated.
type Frame struct {
	ID       string   `yaml:"id"`
	Shots    int      `yaml:"shots"`
	Category Category `yaml:"category"`
	Name     string   `yaml:"name"`
	Layout   Layout   `yaml:"layout"`
	Style    Style    `yaml:"style"`
}

// Style is presentational metadata for the strip container and its slots.
// Lengths are in CSS-like pixels at scale 1.
type Style struct {
	Padding     int      `yaml:"padding"`
	Gap         int      `yaml:"gap"`
	Background  []string `yaml:"background"` // one colour, or two for a diagonal gradient
	SlotAspect  []int    `yaml:"slot_aspect"`
	Border      int      `yaml:"border"`
	BorderColor string   `yaml:"border_color"`
	SlotRadius  int      `yaml:"slot_radius"`
	Shadow      bool     `yaml:"shadow"`
}

// Columns returns the number of slot columns.
func (f Frame) Columns() int {
	if f.Layout == LayoutGrid {
		return gridColumns
	}
	return 1
}

// Rows returns the number of slot rows.
func (f Frame) Rows() int {
	cols := f.Columns()
	return (f.Shots + cols - 1) / cols
}

// slotSize returns the size of one slot for a strip of the given width.
func (f Frame) slotSize(width int) image.Point {
	s := f.Style
	cols := f.Columns()
	inner := width - 2*s.Padding - (cols-1)*s.Gap
	w := inner / cols
	aw, ah := 1, 1
	if len(s.SlotAspect) == 2 {
		aw, ah = s.SlotAspect[0], s.SlotAspect[1]
	}
	return image.Pt(w, w*ah/aw)
}

// Size returns the full strip size for the given width.
func (f Frame) Size(width int) image.Point {
	slot := f.slotSize(width)
	rows := f.Rows()
	h := 2*f.Style.Padding + rows*slot.Y + (rows-1)*f.Style.Gap
	return image.Pt(width, h)
}

// Slots returns one rectangle per shot, in capture order. Grids fill row by
// row, left to right.
func (f Frame) Slots(width int) []image.Rectangle {
	slot := f.slotSize(width)
	cols := f.Columns()
	s := f.Style
	out := make([]image.Rectangle, 0, f.Shots)
	for i := 0; i < f.Shots; i++ {
		row, col := i/cols, i%cols
		x := s.Padding + col*(slot.X+s.Gap)
		y := s.Padding + row*(slot.Y+s.Gap)
		out = append(out, image.Rect(x, y, x+slot.X, y+slot.Y))
	}
	return out
}

// Scaled returns a copy of the style with every length multiplied by k.
func (s Style) Scaled(k int) Style {
	out := s
	out.Padding *= k
	out.Gap *= k
	out.Border *= k
	out.SlotRadius *= k
	out.Background = append([]string(nil), s.Background...)
	out.SlotAspect = append([]int(nil), s.SlotAspect...)
	return out
}

// BackgroundColors parses the background colour stops.
func (s Style) BackgroundColors() ([]color.RGBA, error) {
	out := make([]color.RGBA, 0, len(s.Background))
	for _, hex := range s.Background {
		c, err := ParseHex(hex)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("parse colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
