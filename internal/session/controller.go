// Package session owns the photobooth's screen state: which phase is showing,
// the chosen frame, and the captured photos.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jask/photobooth/internal/frame"
	"github.com/jask/photobooth/internal/photo"
	"github.com/jask/photobooth/internal/share"
)

// Phase is the active screen.
type Phase int

const (
	PhaseSelecting Phase = iota
	PhaseCapturing
	PhasePreviewing
)

func (p Phase) String() string {
	switch p {
	case PhaseSelecting:
		return "selecting"
	case PhaseCapturing:
		return "capturing"
	case PhasePreviewing:
		return "previewing"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current phase. State is left untouched.
	ErrInvalidTransition = errors.New("session: transition not allowed")
	// ErrShotCount means a capture did not produce the frame's shot count.
	ErrShotCount = errors.New("session: photo count does not match frame")
	// ErrUnknownFrame means a share payload named a frame not in the catalog.
	ErrUnknownFrame = errors.New("session: unknown frame")
)

// Controller holds all session state. Only its methods change it.
type Controller struct {
	catalog *frame.Catalog
	codec   *share.Codec
	log     *slog.Logger

	id          string
	phase       Phase
	frame       frame.Frame
	photos      []photo.Photo
	shared      bool
	initialized bool
}

// New returns a controller in the selecting phase. It is not initialized
// until Start runs.
func New(catalog *frame.Catalog, codec *share.Codec, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{catalog: catalog, codec: codec, log: log, id: uuid.NewString()}
	if all := catalog.All(); len(all) > 0 {
		c.frame = all[0]
	}
	return c
}

// Start runs the one-time share link check. A location whose fragment
// carries a valid share payload opens straight into a shared preview. Any
// share fragment, valid or not, is stripped from loc so it is not replayed.
// The returned error describes a rejected share fragment; the session is
// usable either way.
func (c *Controller) Start(loc Location) error {
	if c.initialized {
		return nil
	}
	defer func() { c.initialized = true }()
	if loc == nil {
		return nil
	}
	frag := loc.Fragment()
	if !share.HasMarker(frag) {
		return nil
	}
	defer loc.ReplaceFragment("")

	payload, err := c.codec.Decode(frag)
	if err != nil {
		c.log.Warn("share link rejected", "error", err)
		return err
	}
	f, ok := c.catalog.Lookup(payload.FrameID)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownFrame, payload.FrameID)
		c.log.Warn("share link rejected", "error", err)
		return err
	}
	if len(payload.Photos) == 0 {
		c.log.Warn("share link rejected", "error", share.ErrEmpty)
		return share.ErrEmpty
	}
	c.id = uuid.NewString()
	c.frame = f
	c.photos = payload.Photos
	c.phase = PhasePreviewing
	c.shared = true
	c.log.Info("opened shared strip", "session", c.id, "frame", f.ID, "photos", len(payload.Photos))
	return nil
}

// SelectFrame moves from selecting to capturing with f.
func (c *Controller) SelectFrame(f frame.Frame) error {
	if c.phase != PhaseSelecting {
		return fmt.Errorf("%w: select frame while %s", ErrInvalidTransition, c.phase)
	}
	c.id = uuid.NewString()
	c.frame = f
	c.photos = nil
	c.phase = PhaseCapturing
	c.log.Info("frame selected", "session", c.id, "frame", f.ID, "shots", f.Shots)
	return nil
}

// CompleteCapture moves from capturing to previewing. photos must hold
// exactly the frame's shot count; their order is kept.
func (c *Controller) CompleteCapture(photos []photo.Photo) error {
	if c.phase != PhaseCapturing {
		return fmt.Errorf("%w: complete capture while %s", ErrInvalidTransition, c.phase)
	}
	if len(photos) != c.frame.Shots {
		return fmt.Errorf("%w: got %d, want %d", ErrShotCount, len(photos), c.frame.Shots)
	}
	c.photos = append([]photo.Photo(nil), photos...)
	c.shared = false
	c.phase = PhasePreviewing
	c.log.Info("capture complete", "session", c.id, "frame", c.frame.ID, "photos", len(photos))
	return nil
}

// Retry discards the photos and returns to frame selection.
func (c *Controller) Retry() error {
	if c.phase != PhasePreviewing {
		return fmt.Errorf("%w: retry while %s", ErrInvalidTransition, c.phase)
	}
	c.photos = nil
	c.shared = false
	c.phase = PhaseSelecting
	c.log.Info("retry", "session", c.id)
	return nil
}

// Abandon drops an unfinished capture and returns to frame selection.
func (c *Controller) Abandon() error {
	if c.phase != PhaseCapturing {
		return fmt.Errorf("%w: abandon while %s", ErrInvalidTransition, c.phase)
	}
	c.photos = nil
	c.phase = PhaseSelecting
	c.log.Info("capture abandoned", "session", c.id, "frame", c.frame.ID)
	return nil
}

// Phase returns the active phase.
func (c *Controller) Phase() Phase { return c.phase }

// Frame returns the selected frame.
func (c *Controller) Frame() frame.Frame { return c.frame }

// Photos returns a copy of the photo sequence.
func (c *Controller) Photos() []photo.Photo {
	return append([]photo.Photo(nil), c.photos...)
}

// Shared reports whether the preview came from a share link.
func (c *Controller) Shared() bool { return c.shared }

// Initialized reports whether Start has run.
func (c *Controller) Initialized() bool { return c.initialized }

// ID identifies the current capture session in logs.
func (c *Controller) ID() string { return c.id }

// Catalog returns the frame catalog.
func (c *Controller) Catalog() *frame.Catalog { return c.catalog }
