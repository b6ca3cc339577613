package share

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultQRSize is the rendered code width in pixels.
	DefaultQRSize = 180
	// quietZone is the border in modules around the code.
	quietZone = 1
)

// ErrTooLong means text does not fit in any QR version.
var ErrTooLong = errors.New("share: text too long for a QR code")

// Coder renders text as a scannable code.
type Coder interface {
	// Bitmap returns the module matrix, true for dark, quiet zone included.
	Bitmap(text string) ([][]bool, error)
	// Image renders the code at roughly size x size pixels.
	Image(text string, size int) (image.Image, error)
}

// QR renders QR codes with github.com/skip2/go-qrcode.
type QR struct {
	Level qrcode.RecoveryLevel
}

// NewQR returns a medium recovery coder.
func NewQR() QR {
	return QR{Level: qrcode.Medium}
}

func (q QR) Bitmap(text string) ([][]bool, error) {
	code, err := qrcode.New(text, q.Level)
	if err != nil {
		if strings.Contains(err.Error(), "too long") {
			return nil, fmt.Errorf("%w (%d bytes)", ErrTooLong, len(text))
		}
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	code.DisableBorder = true
	return pad(code.Bitmap(), quietZone), nil
}

func (q QR) Image(text string, size int) (image.Image, error) {
	bm, err := q.Bitmap(text)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	modules := len(bm)
	px := size / modules
	if px < 1 {
		px = 1
	}
	img := image.NewGray(image.Rect(0, 0, modules*px, modules*px))
	for y, row := range bm {
		for x, dark := range row {
			c := color.Gray{Y: 0xff}
			if dark {
				c = color.Gray{}
			}
			for dy := 0; dy < px; dy++ {
				for dx := 0; dx < px; dx++ {
					img.SetGray(x*px+dx, y*px+dy, c)
				}
			}
		}
	}
	return img, nil
}

func pad(bm [][]bool, n int) [][]bool {
	size := len(bm) + 2*n
	out := make([][]bool, size)
	for y := range out {
		out[y] = make([]bool, size)
		if y >= n && y < n+len(bm) {
			copy(out[y][n:], bm[y-n])
		}
	}
	return out
}

// Terminal renders a bitmap with half blocks, two module rows per line.
// Dark modules are drawn with the foreground colour.
func Terminal(bm [][]bool) string {
	var b strings.Builder
	for y := 0; y < len(bm); y += 2 {
		for x := range bm[y] {
			top := bm[y][x]
			bottom := y+1 < len(bm) && bm[y+1][x]
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteByte(' ')
			}
		}
		if y+2 < len(bm) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
