// Package camera abstracts the video device used for snapshots.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"strings"
	"syscall"
)

// Default capture settings, used when config leaves them unset.
const (
	DefaultDevice = "/dev/video0"
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrNotFound means no camera device is present.
	ErrNotFound = errors.New("camera: no device found")
	// ErrUnavailable covers permission refusal and every other acquisition failure.
	ErrUnavailable = errors.New("camera: access denied or unavailable")
	// ErrClosed is returned by a stream that was already released.
	ErrClosed = errors.New("camera: stream closed")
)

// Settings configures a device.
type Settings struct {
	Device string // device node, e.g. /dev/video0
	Width  int
	Height int
}

// DefaultSettings returns 640x480 on the first video node.
func DefaultSettings() Settings {
	return Settings{Device: DefaultDevice, Width: DefaultWidth, Height: DefaultHeight}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Device == "" {
		s.Device = d.Device
	}
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	return s
}

// Device acquires video streams.
type Device interface {
	// Open acquires the device. Errors are classified as ErrNotFound or
	// ErrUnavailable.
	Open(ctx context.Context) (Stream, error)
}

// Stream is an acquired video feed.
type Stream interface {
	// Snapshot returns the current frame at the stream's native resolution.
	Snapshot(ctx context.Context) (image.Image, error)
	// Close stops all tracks. Safe to call more than once.
	Close() error
}

// Classify maps an acquisition error onto ErrNotFound or ErrUnavailable.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENODEV), errors.Is(err, syscall.ENXIO):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

// Message is the user facing text for an acquisition error.
func Message(err error) string {
	if errors.Is(err, ErrNotFound) {
		return "No camera found. Check that a camera is connected to this device."
	}
	return "Cannot access the camera. Check that camera permission is granted."
}

// New builds a device for the named driver.
func New(driver string, s Settings) (Device, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "v4l2":
		return NewV4L2(s), nil
	case "pattern", "demo":
		return NewPattern(s), nil
	default:
		return nil, fmt.Errorf("unknown camera driver %q", driver)
	}
}

// Failing is a device whose Open always fails with Err.
type Failing struct {
	Err error
}

func (f Failing) Open(context.Context) (Stream, error) {
	return nil, Classify(f.Err)
}
