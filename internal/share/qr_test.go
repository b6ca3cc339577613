package share

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQRBitmapHasQuietZone(t *testing.T) {
	t.Parallel()

	bm, err := NewQR().Bitmap("https://booth.example/#preview&frame=a&photos=b")
	require.NoError(t, err)
	require.Greater(t, len(bm), 21)
	for _, row := range bm {
		require.Len(t, row, len(bm))
	}
	for i := range bm {
		require.False(t, bm[0][i])
		require.False(t, bm[i][0])
		require.False(t, bm[len(bm)-1][i])
	}
	// finder pattern corner sits just inside the quiet zone
	require.True(t, bm[1][1])
}

func TestQRImageSize(t *testing.T) {
	t.Parallel()

	img, err := NewQR().Image("hello", DefaultQRSize)
	require.NoError(t, err)
	require.LessOrEqual(t, img.Bounds().Dx(), DefaultQRSize)
	require.Greater(t, img.Bounds().Dx(), DefaultQRSize/2)
	require.Equal(t, img.Bounds().Dx(), img.Bounds().Dy())
}

func TestQRTooLong(t *testing.T) {
	t.Parallel()

	_, err := NewQR().Bitmap(strings.Repeat("x", 8000))
	require.ErrorIs(t, err, ErrTooLong)
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	bm := [][]bool{
		{true, false, true},
		{true, true, false},
		{false, true, false},
	}
	require.Equal(t, "█▄▀\n ▀ ", Terminal(bm))
}
