package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/photobooth/internal/frame"
	"github.com/jask/photobooth/internal/photo"
)

func solid(t *testing.T, c color.RGBA) photo.Photo {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	p, err := photo.Encode(img, 95)
	require.NoError(t, err)
	return p
}

func near(a, b color.Color) bool {
	r1, g1, b1, _ := a.RGBA()
	r2, g2, b2, _ := b.RGBA()
	d := func(x, y uint32) uint32 {
		if x > y {
			return (x - y) >> 8
		}
		return (y - x) >> 8
	}
	return d(r1, r2) < 24 && d(g1, g2) < 24 && d(b1, b2) < 24
}

var palette = []color.RGBA{
	{0xe0, 0x20, 0x20, 0xff},
	{0x20, 0xe0, 0x20, 0xff},
	{0x20, 0x20, 0xe0, 0xff},
	{0xe0, 0xe0, 0x20, 0xff},
}

func gridStrip(t *testing.T) Strip {
	t.Helper()
	f, ok := frame.Default().Lookup("normal-4-grid")
	require.True(t, ok)
	photos := make([]photo.Photo, len(palette))
	for i, c := range palette {
		photos[i] = solid(t, c)
	}
	return Strip{Frame: f, Photos: photos}
}

func TestCanvasPlacesPhotosInOrder(t *testing.T) {
	t.Parallel()

	s := gridStrip(t)
	img, err := NewCanvas().Rasterize(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 768, 1002), img.Bounds())

	f := s.Layout()
	f.Style = f.Style.Scaled(DefaultScale)
	for i, slot := range f.Slots(DefaultWidth * DefaultScale) {
		center := image.Pt((slot.Min.X+slot.Max.X)/2, (slot.Min.Y+slot.Max.Y)/2)
		require.True(t, near(palette[i], img.At(center.X, center.Y)), "slot %d got %v", i, img.At(center.X, center.Y))
	}
	// padding shows the white background; the rounded corner is transparent
	require.True(t, near(color.White, img.At(10, 500)))
	_, _, _, a := img.At(0, 0).RGBA()
	require.Zero(t, a)
}

func TestCanvasGradientAndBorder(t *testing.T) {
	t.Parallel()

	f, ok := frame.Default().Lookup("special-1-full")
	require.True(t, ok)
	s := Strip{Frame: f, Photos: []photo.Photo{solid(t, palette[2])}}
	img, err := (&Canvas{Width: 200, Scale: 1}).Rasterize(context.Background(), s)
	require.NoError(t, err)

	slot := s.Layout().Slots(200)[0]
	border, _ := frame.ParseHex(f.Style.BorderColor)
	require.True(t, near(border, img.At(slot.Min.X+3, (slot.Min.Y+slot.Max.Y)/2)))
	require.True(t, near(palette[2], img.At((slot.Min.X+slot.Max.X)/2, (slot.Min.Y+slot.Max.Y)/2)))
}

func TestCanvasRejectsBadPhoto(t *testing.T) {
	t.Parallel()

	f, _ := frame.Default().Lookup("special-1-full")
	_, err := NewCanvas().Rasterize(context.Background(), Strip{Frame: f, Photos: []photo.Photo{{Data: []byte("nope")}}})
	require.Error(t, err)
}

func TestDownloadWritesTimestampedPNG(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	at := time.UnixMilli(1718000000123)
	e := &Exporter{Rasterizer: &Canvas{Width: 120, Scale: 1}, Dir: dir, Prefix: "booth", Now: func() time.Time { return at }}

	path, err := e.Download(context.Background(), gridStrip(t))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "booth-1718000000123.png"), path)

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	img, err := png.Decode(fh)
	require.NoError(t, err)
	require.Equal(t, 120, img.Bounds().Dx())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file should be renamed away")
}

type failingRasterizer struct{}

func (failingRasterizer) Rasterize(context.Context, Strip) (image.Image, error) {
	return nil, errors.New("canvas tainted")
}

func TestDownloadFailureIsRecoverable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := &Exporter{Rasterizer: failingRasterizer{}, Dir: dir}
	_, err := e.Download(context.Background(), gridStrip(t))
	require.ErrorIs(t, err, ErrRasterize)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	e.Rasterizer = &Canvas{Width: 100, Scale: 1}
	path, err := e.Download(context.Background(), gridStrip(t))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(filepath.Base(path), DefaultPrefix+"-"))
}

func TestRenderEmptyStrip(t *testing.T) {
	t.Parallel()

	e := &Exporter{Rasterizer: NewCanvas()}
	_, err := e.Render(context.Background(), Strip{Frame: gridStrip(t).Frame})
	require.ErrorIs(t, err, ErrNoPhotos)
}

func TestFilename(t *testing.T) {
	t.Parallel()

	require.Equal(t, "swayn-photobooth-5.png", Filename("", time.UnixMilli(5)))
	require.Equal(t, "booth-5-qr.png", QRFilename("booth", time.UnixMilli(5)))
}

func TestSaveQRWritesBesideStrips(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	at := time.UnixMilli(1718000000456)
	e := &Exporter{Dir: dir, Prefix: "booth", Now: func() time.Time { return at }}

	code := image.NewGray(image.Rect(0, 0, 50, 50))
	path, err := e.SaveQR(code)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "booth-1718000000456-qr.png"), path)

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	img, err := png.Decode(fh)
	require.NoError(t, err)
	require.Equal(t, 50, img.Bounds().Dx())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestHTML(t *testing.T) {
	t.Parallel()

	s := gridStrip(t)
	doc, err := HTML(s, 384)
	require.NoError(t, err)
	require.Contains(t, doc, "grid-template-columns:repeat(2,1fr)")
	require.Equal(t, 4, strings.Count(doc, `src="data:image/jpeg;base64,`))

	f, _ := frame.Default().Lookup("special-4-vertical")
	doc, err = HTML(Strip{Frame: f, Photos: s.Photos}, 384)
	require.NoError(t, err)
	require.Contains(t, doc, "linear-gradient(to bottom right,#60a5fa,#1d4ed8)")
	require.Contains(t, doc, "flex-direction:column")
	require.Contains(t, doc, "border:4px solid #ffffff")
}

func TestNewRasterizer(t *testing.T) {
	t.Parallel()

	r, err := NewRasterizer("chrome", 0, 0, "", nil)
	require.NoError(t, err)
	require.IsType(t, &Chrome{}, r)

	r, err = NewRasterizer("", 0, 0, "", nil)
	require.NoError(t, err)
	require.IsType(t, &Canvas{}, r)

	_, err = NewRasterizer("svg", 0, 0, "", nil)
	require.Error(t, err)
}
