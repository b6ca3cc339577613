package camera

import (
	"context"
	"image"
	"image/color"
	"sync"
)

var bars = []color.RGBA{
	{0xc0, 0xc0, 0xc0, 0xff},
	{0xc0, 0xc0, 0x00, 0xff},
	{0x00, 0xc0, 0xc0, 0xff},
	{0x00, 0xc0, 0x00, 0xff},
	{0xc0, 0x00, 0xc0, 0xff},
	{0xc0, 0x00, 0x00, 0xff},
	{0x00, 0x00, 0xc0, 0xff},
}

// Pattern is a synthetic device producing colour bars with a marker block
// that moves one step per snapshot, so consecutive shots differ.
type Pattern struct {
	settings Settings

	mu     sync.Mutex
	opened int
}

// NewPattern returns a pattern device.
func NewPattern(s Settings) *Pattern {
	return &Pattern{settings: s.withDefaults()}
}

// Opened reports how many streams have been acquired.
func (p *Pattern) Opened() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened
}

func (p *Pattern) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, Classify(err)
	}
	p.mu.Lock()
	p.opened++
	p.mu.Unlock()
	return &patternStream{settings: p.settings}, nil
}

type patternStream struct {
	settings Settings

	mu     sync.Mutex
	shots  int
	closed bool
}

func (s *patternStream) Snapshot(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	w, h := s.settings.Width, s.settings.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	barW := (w + len(bars) - 1) / len(bars)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, bars[x/barW])
		}
	}
	// marker block, left edge on the first shot and moving right
	size := h / 6
	x0 := (s.shots * size) % (w - size)
	for y := h - size; y < h; y++ {
		for x := x0; x < x0+size; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 0xff})
		}
	}
	s.shots++
	return img, nil
}

func (s *patternStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
