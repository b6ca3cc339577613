package session

import (
	"fmt"
	"net/url"
)

// Location is the address the app was opened with. Its fragment may carry a
// share payload; ReplaceFragment rewrites it in place, without reloading.
type Location interface {
	Fragment() string
	ReplaceFragment(fragment string)
	String() string
}

// URLLocation is a Location backed by a parsed URL.
type URLLocation struct {
	u *url.URL
}

// ParseLocation parses raw. An empty raw yields an empty location.
func ParseLocation(raw string) (*URLLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse location: %w", err)
	}
	return &URLLocation{u: u}, nil
}

func (l *URLLocation) Fragment() string {
	// EscapedFragment keeps '+' and '%' sequences as they were typed
	return l.u.EscapedFragment()
}

func (l *URLLocation) ReplaceFragment(fragment string) {
	l.u.Fragment, l.u.RawFragment = "", ""
	if fragment == "" {
		return
	}
	if f, err := url.PathUnescape(fragment); err == nil {
		l.u.Fragment, l.u.RawFragment = f, fragment
	}
}

func (l *URLLocation) String() string { return l.u.String() }
