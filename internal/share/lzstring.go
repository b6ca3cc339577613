package share

import (
	"errors"
	"fmt"
	"unicode/utf16"
)

// uriAlphabet is the lz-string URI component alphabet, six bits per symbol.
const uriAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+-$"

var uriValue = func() [256]int {
	var t [256]int
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(uriAlphabet); i++ {
		t[uriAlphabet[i]] = i
	}
	return t
}()

var errLZCorrupt = errors.New("lz-string: corrupt input")

// bitReader yields the bits of a URI component stream, most significant
// first within each six-bit symbol. Reads past the end yield zeros.
type bitReader struct {
	src   string
	index int
	val   int
	mask  int
}

func newBitReader(src string) (*bitReader, error) {
	for i := 0; i < len(src); i++ {
		if uriValue[src[i]] < 0 {
			return nil, fmt.Errorf("%w: byte %d is not in the alphabet", errLZCorrupt, i)
		}
	}
	r := &bitReader{src: src, mask: 32}
	r.val = r.symbol(0)
	r.index = 1
	return r, nil
}

func (r *bitReader) symbol(i int) int {
	if i >= len(r.src) {
		return 0
	}
	return uriValue[r.src[i]]
}

// read returns the next n bits, least significant bit first.
func (r *bitReader) read(n int) int {
	bits := 0
	for power := 0; power < n; power++ {
		if r.val&r.mask != 0 {
			bits |= 1 << power
		}
		r.mask >>= 1
		if r.mask == 0 {
			r.mask = 32
			r.val = r.symbol(r.index)
			r.index++
		}
	}
	return bits
}

// exhausted reports whether the reader has moved past the last symbol.
func (r *bitReader) exhausted() bool { return r.index > len(r.src) }

// decompressURI inverts lz-string compressToEncodedURIComponent. The
// dictionary is indexed by int, so it keeps growing past 65536 entries the
// way the JavaScript implementation does.
func decompressURI(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	r, err := newBitReader(s)
	if err != nil {
		return "", err
	}

	dict := make([][]uint16, 3, 1024)
	enlargeIn, numBits := 4, 3

	var c []uint16
	switch r.read(2) {
	case 0:
		c = []uint16{uint16(r.read(8))}
	case 1:
		c = []uint16{uint16(r.read(16))}
	case 2:
		return "", nil
	default:
		return "", fmt.Errorf("%w: bad first token", errLZCorrupt)
	}
	dict = append(dict, c)
	w := c
	out := append(make([]uint16, 0, len(s)*2), c...)

	for {
		if r.exhausted() {
			return "", fmt.Errorf("%w: truncated", errLZCorrupt)
		}
		code := r.read(numBits)
		switch code {
		case 0, 1:
			width := 8
			if code == 1 {
				width = 16
			}
			dict = append(dict, []uint16{uint16(r.read(width))})
			code = len(dict) - 1
			enlargeIn--
		case 2:
			return string(utf16.Decode(out)), nil
		}
		if enlargeIn == 0 {
			enlargeIn = 1 << numBits
			numBits++
		}

		var entry []uint16
		switch {
		case code < len(dict):
			entry = dict[code]
		case code == len(dict):
			entry = append(append(make([]uint16, 0, len(w)+1), w...), w[0])
		default:
			return "", fmt.Errorf("%w: code %d beyond dictionary of %d", errLZCorrupt, code, len(dict))
		}
		out = append(out, entry...)

		next := make([]uint16, len(w)+1)
		copy(next, w)
		next[len(w)] = entry[0]
		dict = append(dict, next)
		enlargeIn--
		w = entry

		if enlargeIn == 0 {
			enlargeIn = 1 << numBits
			numBits++
		}
	}
}
