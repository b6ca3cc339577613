// Package share encodes a frame id and its photos into a URL fragment that
// another device can open, and decodes such fragments back.
//
// Fragment format:
//
//	#preview&frame=<frameId>&photos=<payload>
//
// payload is the lz-string "encoded URI component" compression of the base64
// photo payloads joined by '|', which never occurs in base64.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	lzstring "github.com/daku10/go-lz-string"

	"github.com/jask/photobooth/internal/photo"
)

const (
	// Marker opens every share fragment.
	Marker = "preview"
	// Delimiter separates photo payloads before compression.
	Delimiter = "|"

	paramFrame  = "frame"
	paramPhotos = "photos"
)

var (
	// ErrNoMarker means the fragment is not a share fragment at all.
	ErrNoMarker = errors.New("share: no share marker")
	// ErrMalformed means the marker is present but the data cannot be used.
	ErrMalformed = errors.New("share: malformed fragment")
	// ErrEmpty means there are no photos to share or none were decoded.
	ErrEmpty = errors.New("share: no photos")
	// ErrRoundTrip means the compressed payload does not decode back to the
	// photos it was made from. No link is produced.
	ErrRoundTrip = errors.New("share: payload does not round-trip")
)

// Compressor is a reversible text compression whose output is URL safe.
type Compressor interface {
	Compress(s string) (string, error)
	Decompress(s string) (string, error)
}

// LZString is the lz-string URI component scheme, compatible with the
// JavaScript library of the same name. Compression is done by go-lz-string;
// its decompressor keys the dictionary by uint16 and corrupts payloads once
// more than 65536 phrases are defined, so decoding uses decompressURI.
type LZString struct{}

func (LZString) Compress(s string) (string, error) {
	return lzstring.CompressToEncodedURIComponent(s)
}

func (LZString) Decompress(s string) (string, error) {
	// query decoding turns '+' into ' '; lz-string undoes that the same way
	return decompressURI(strings.ReplaceAll(s, " ", "+"))
}

// Payload is a decoded share fragment.
type Payload struct {
	FrameID string
	Photos  []photo.Photo
}

// Codec builds and parses share fragments.
type Codec struct {
	Compressor Compressor
}

// NewCodec returns a codec using lz-string.
func NewCodec() *Codec {
	return &Codec{Compressor: LZString{}}
}

// HasMarker reports whether fragment looks like a share fragment.
func HasMarker(fragment string) bool {
	f := strings.TrimPrefix(fragment, "#")
	return strings.HasPrefix(f, Marker+"&"+paramFrame+"=")
}

// Encode returns the fragment, without the leading '#', for frameID and photos.
// The compressed payload is decoded again before it is handed out; one that
// does not reproduce its input fails with ErrRoundTrip.
func (c *Codec) Encode(frameID string, photos []photo.Photo) (string, error) {
	if frameID == "" {
		return "", fmt.Errorf("%w: missing frame id", ErrMalformed)
	}
	if len(photos) == 0 {
		return "", ErrEmpty
	}
	parts := make([]string, len(photos))
	for i, p := range photos {
		if len(p.Data) == 0 {
			return "", fmt.Errorf("photo %d: %w", i+1, photo.ErrEmpty)
		}
		parts[i] = p.Base64()
	}
	joined := strings.Join(parts, Delimiter)
	compressed, err := c.Compressor.Compress(joined)
	if err != nil {
		return "", fmt.Errorf("compress photos: %w", err)
	}
	back, err := c.Compressor.Decompress(compressed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRoundTrip, err)
	}
	if back != joined {
		return "", fmt.Errorf("%w: %d of %d bytes survived", ErrRoundTrip, commonPrefix(back, joined), len(joined))
	}
	return Marker + "&" + paramFrame + "=" + url.QueryEscape(frameID) + "&" + paramPhotos + "=" + compressed, nil
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// Link returns base with the share fragment attached, replacing any fragment
// base already had.
func (c *Codec) Link(base string, frameID string, photos []photo.Photo) (string, error) {
	frag, err := c.Encode(frameID, photos)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + "#" + frag, nil
}

// Decode parses a fragment, with or without its leading '#'. Parameters other
// than frame and photos are ignored.
func (c *Codec) Decode(fragment string) (Payload, error) {
	f := strings.TrimPrefix(fragment, "#")
	if !HasMarker(f) {
		return Payload{}, ErrNoMarker
	}
	params, err := url.ParseQuery(f[strings.IndexByte(f, '&')+1:])
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	frameID := params.Get(paramFrame)
	compressed := params.Get(paramPhotos)
	if frameID == "" {
		return Payload{}, fmt.Errorf("%w: missing frame", ErrMalformed)
	}
	if compressed == "" {
		return Payload{}, fmt.Errorf("%w: missing photos", ErrMalformed)
	}
	joined, err := c.Compressor.Decompress(compressed)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: decompress: %v", ErrMalformed, err)
	}
	if joined == "" {
		return Payload{}, ErrEmpty
	}
	pieces := strings.Split(joined, Delimiter)
	photos := make([]photo.Photo, 0, len(pieces))
	for i, piece := range pieces {
		p, err := photo.FromBase64(piece)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: photo %d: %v", ErrMalformed, i+1, err)
		}
		photos = append(photos, p)
	}
	return Payload{FrameID: frameID, Photos: photos}, nil
}
