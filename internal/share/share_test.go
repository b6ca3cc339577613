package share

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/photobooth/internal/photo"
)

func randomPhotos(r *rand.Rand, n int) []photo.Photo {
	out := make([]photo.Photo, n)
	for i := range out {
		data := make([]byte, 1+r.Intn(512))
		r.Read(data)
		out[i] = photo.Photo{Data: data}
	}
	return out
}

func TestRoundTripByteIdentical(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	r := rand.New(rand.NewSource(7))
	for _, n := range []int{1, 2, 4, 7} {
		photos := randomPhotos(r, n)
		frag, err := codec.Encode("normal-4-grid", photos)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(frag, "preview&frame=normal-4-grid&photos="))

		got, err := codec.Decode("#" + frag)
		require.NoError(t, err)
		require.Equal(t, "normal-4-grid", got.FrameID)
		require.Len(t, got.Photos, n)
		for i := range photos {
			require.Equal(t, photos[i].Data, got.Photos[i].Data, "photo %d", i)
		}
	}
}

func TestRoundTripWebcamSizedPhotos(t *testing.T) {
	t.Parallel()

	// 640x480 webcam JPEGs of busy scenes run past 100 KB each
	r := rand.New(rand.NewSource(11))
	photos := make([]photo.Photo, 4)
	for i := range photos {
		data := make([]byte, 100_000+r.Intn(30_000))
		r.Read(data)
		photos[i] = photo.Photo{Data: data}
	}

	codec := NewCodec()
	frag, err := codec.Encode("normal-4-grid", photos)
	require.NoError(t, err)

	got, err := codec.Decode(frag)
	require.NoError(t, err)
	require.Len(t, got.Photos, len(photos))
	for i := range photos {
		require.Equal(t, photos[i].Data, got.Photos[i].Data, "photo %d", i)
	}
}

// Produced by lz-string's compressToEncodedURIComponent in JavaScript.
var jsFixtures = []struct {
	plain, compressed string
}{
	{"", "Q"},
	{"H", "BJA"},
	{"HelloHello", "BIUwNmD2oZQ"},
	{"ababcabcdabcde", "IYI1GMIE2hTI"},
	{"Hello, world", "BIUwNmD2A0AEDukBOYAmQ"},
	{"あいうえお", "kIMhEGRiDIEgyFIMQ"},
	{"aあ🍎bい🍇c", "IaIQZDwbhy+wRoIgxo4vsGMg"},
}

func TestLZStringMatchesJavaScript(t *testing.T) {
	t.Parallel()

	var lz LZString
	for _, fx := range jsFixtures {
		got, err := lz.Compress(fx.plain)
		require.NoError(t, err)
		require.Equal(t, fx.compressed, got, "compress %q", fx.plain)

		back, err := lz.Decompress(fx.compressed)
		require.NoError(t, err)
		require.Equal(t, fx.plain, back, "decompress %q", fx.compressed)
	}

	// a '+' that went through query decoding arrives as a space
	back, err := lz.Decompress("IaIQZDwbhy wRoIgxo4vsGMg")
	require.NoError(t, err)
	require.Equal(t, "aあ🍎bい🍇c", back)
}

func TestLZStringRejectsCorruptInput(t *testing.T) {
	t.Parallel()

	var lz LZString
	_, err := lz.Decompress("BIUw*mD2oZQ")
	require.ErrorIs(t, err, errLZCorrupt)

	_, err = lz.Decompress("BIUwNmD2")
	require.ErrorIs(t, err, errLZCorrupt)
}

// lossy drops the tail of long inputs on the way back.
type lossy struct{}

func (lossy) Compress(s string) (string, error) { return s, nil }
func (lossy) Decompress(s string) (string, error) {
	if len(s) > 8 {
		return s[:8], nil
	}
	return s, nil
}

func TestEncodeRefusesPayloadThatDoesNotRoundTrip(t *testing.T) {
	t.Parallel()

	codec := &Codec{Compressor: lossy{}}
	_, err := codec.Encode("normal-2-vertical", []photo.Photo{{Data: make([]byte, 64)}})
	require.ErrorIs(t, err, ErrRoundTrip)

	_, err = codec.Link("https://booth.example/", "normal-2-vertical", []photo.Photo{{Data: make([]byte, 64)}})
	require.ErrorIs(t, err, ErrRoundTrip)

	_, err = codec.Encode("a", []photo.Photo{{Data: []byte{1}}})
	require.NoError(t, err)
}

func TestLinkReplacesFragment(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	photos := []photo.Photo{{Data: []byte("jpeg")}}
	link, err := codec.Link("https://booth.example/app?x=1#old", "special-1-full", photos)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "https://booth.example/app?x=1#preview&frame=special-1-full&photos="))
	require.Equal(t, 1, strings.Count(link, "#"))

	got, err := codec.Decode(link[strings.IndexByte(link, '#'):])
	require.NoError(t, err)
	require.Equal(t, photos[0].Data, got.Photos[0].Data)
}

func TestDecodeIgnoresUnknownParams(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	frag, err := codec.Encode("normal-2-vertical", []photo.Photo{{Data: []byte{1, 2, 3}}, {Data: []byte{4}}})
	require.NoError(t, err)

	got, err := codec.Decode(frag + "&utm_source=qr")
	require.NoError(t, err)
	require.Len(t, got.Photos, 2)
}

func TestDecodeRejects(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	cases := []struct {
		name string
		frag string
		want error
	}{
		{"empty", "", ErrNoMarker},
		{"other app", "#section-2", ErrNoMarker},
		{"wrong order", "#preview&photos=abc&frame=x", ErrNoMarker},
		{"no photos", "#preview&frame=normal-4-grid", ErrMalformed},
		{"blank photos", "#preview&frame=normal-4-grid&photos=", ErrMalformed},
		{"blank frame", "#preview&frame=&photos=abc", ErrMalformed},
	}
	for _, tc := range cases {
		_, err := codec.Decode(tc.frag)
		require.ErrorIs(t, err, tc.want, tc.name)
	}
}

// identity passes text through so tests can hand-craft payloads.
type identity struct{}

func (identity) Compress(s string) (string, error)   { return s, nil }
func (identity) Decompress(s string) (string, error) { return s, nil }

type broken struct{}

func (broken) Compress(string) (string, error)   { return "", errors.New("nope") }
func (broken) Decompress(string) (string, error) { return "", errors.New("nope") }

func TestDecodeCorruptPayload(t *testing.T) {
	t.Parallel()

	codec := &Codec{Compressor: identity{}}
	_, err := codec.Decode("preview&frame=a&photos=AAAA" + Delimiter + "!!!!")
	require.ErrorIs(t, err, ErrMalformed)

	_, err = codec.Decode("preview&frame=a&photos=AAAA" + Delimiter)
	require.ErrorIs(t, err, ErrMalformed)

	got, err := codec.Decode("preview&frame=a&photos=AAAA" + Delimiter + "AQID")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got.Photos[1].Data)

	_, err = (&Codec{Compressor: broken{}}).Decode("preview&frame=a&photos=zzz")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestEncodeRejectsEmpty(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	_, err := codec.Encode("a", nil)
	require.ErrorIs(t, err, ErrEmpty)

	_, err = codec.Encode("a", []photo.Photo{{}})
	require.ErrorIs(t, err, photo.ErrEmpty)

	_, err = codec.Encode("", []photo.Photo{{Data: []byte{1}}})
	require.ErrorIs(t, err, ErrMalformed)

	_, err = (&Codec{Compressor: broken{}}).Encode("a", []photo.Photo{{Data: []byte{1}}})
	require.Error(t, err)
}

func TestHasMarker(t *testing.T) {
	t.Parallel()

	require.True(t, HasMarker("#preview&frame=x"))
	require.True(t, HasMarker("preview&frame=x&photos=y"))
	require.False(t, HasMarker("#preview"))
	require.False(t, HasMarker(""))
}
