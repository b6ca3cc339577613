// Package photo holds captured still images as encoded JPEG payloads.
package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"strings"
)

// DefaultQuality is the JPEG quality used for snapshots.
const DefaultQuality = 92

const dataURLPrefix = "data:image/jpeg;base64,"

// ErrEmpty is returned for a photo with no payload.
var ErrEmpty = errors.New("photo: empty payload")

// Photo is one captured still. Data is the JPEG payload exactly as it was
// encoded at capture time; mirroring is already applied.
type Photo struct {
	Data []byte
}

// Base64 returns the standard base64 encoding of the payload.
func (p Photo) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// DataURL returns the payload as a data: URL.
func (p Photo) DataURL() string {
	return dataURLPrefix + p.Base64()
}

// Decode decodes the JPEG payload.
func (p Photo) Decode() (image.Image, error) {
	if len(p.Data) == 0 {
		return nil, ErrEmpty
	}
	img, err := jpeg.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	return img, nil
}

// FromBase64 rebuilds a photo from its base64 payload.
func FromBase64(s string) (Photo, error) {
	if s == "" {
		return Photo{}, ErrEmpty
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Photo{}, fmt.Errorf("photo base64: %w", err)
	}
	return Photo{Data: data}, nil
}

// ParseDataURL accepts a data: URL or a bare base64 payload.
func ParseDataURL(s string) (Photo, error) {
	if i := strings.Index(s, ","); strings.HasPrefix(s, "data:") && i >= 0 {
		s = s[i+1:]
	}
	return FromBase64(s)
}

// Encode JPEG-encodes img.
func Encode(img image.Image, quality int) (Photo, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return Photo{}, fmt.Errorf("encode photo: %w", err)
	}
	return Photo{Data: buf.Bytes()}, nil
}

// Mirror returns a horizontally flipped copy of img.
func Mirror(img image.Image) *image.RGBA {
	b := img.Bounds()
	src := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
	out := image.NewRGBA(src.Bounds())
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			copy(dst[(w-1-x)*4:(w-x)*4], row[x*4:(x+1)*4])
		}
	}
	return out
}

// Snapshot mirrors and encodes a camera frame, the form stored in a session.
func Snapshot(frame image.Image, quality int) (Photo, error) {
	return Encode(Mirror(frame), quality)
}
