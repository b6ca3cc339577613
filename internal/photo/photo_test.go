package photo

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMirror(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(2, 0, color.RGBA{B: 255, A: 255})

	m := Mirror(img)
	require.Equal(t, color.RGBA{B: 255, A: 255}, m.RGBAAt(0, 0))
	require.Equal(t, color.RGBA{R: 255, A: 255}, m.RGBAAt(2, 0))
}

func TestMirrorOffsetBounds(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(10, 10, 12, 11))
	img.Set(10, 10, color.RGBA{G: 255, A: 255})
	m := Mirror(img)
	require.Equal(t, image.Rect(0, 0, 2, 1), m.Bounds())
	require.Equal(t, color.RGBA{G: 255, A: 255}, m.RGBAAt(1, 0))
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	p, err := Snapshot(img, 80)
	require.NoError(t, err)
	require.NotEmpty(t, p.Data)

	back, err := FromBase64(p.Base64())
	require.NoError(t, err)
	require.Equal(t, p.Data, back.Data)

	fromURL, err := ParseDataURL(p.DataURL())
	require.NoError(t, err)
	require.Equal(t, p.Data, fromURL.Data)

	dec, err := back.Decode()
	require.NoError(t, err)
	require.Equal(t, 16, dec.Bounds().Dx())
	require.Equal(t, 8, dec.Bounds().Dy())
}

func TestFromBase64Errors(t *testing.T) {
	t.Parallel()

	_, err := FromBase64("")
	require.ErrorIs(t, err, ErrEmpty)

	_, err = FromBase64("not base64!")
	require.Error(t, err)

	_, err = Photo{}.Decode()
	require.ErrorIs(t, err, ErrEmpty)
}
