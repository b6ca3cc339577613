// Package capture sequences timed snapshot rounds against a camera.
//
// The Sequencer is a pure state machine. It never sleeps and never touches
// the camera itself: every event returns a Step telling the caller what to do
// next (schedule a tick, take a snapshot, release the camera, deliver the
// photos). Callers own the single timer and the camera stream.
package capture

import (
	"time"

	"github.com/jask/photobooth/internal/camera"
	"github.com/jask/photobooth/internal/photo"
)

const (
	// CountdownSeconds is where every round's countdown starts.
	CountdownSeconds = 3
	// TickInterval is the countdown decrement period.
	TickInterval = time.Second
	// Pause is the gap between a snapshot and the next automatic round.
	Pause = time.Second
)

// State is the sequencer phase.
type State int

const (
	StateAcquiring State = iota
	StateIdle
	StateCountingDown
	StateCapturing
	StatePaused
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAcquiring:
		return "acquiring"
	case StateIdle:
		return "idle"
	case StateCountingDown:
		return "counting-down"
	case StateCapturing:
		return "capturing"
	case StatePaused:
		return "paused"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Step is the work a caller must perform after an event. The zero value
// means nothing to do.
type Step struct {
	// Schedule, when positive, asks for Tick to be called after this delay.
	Schedule time.Duration
	// Snapshot asks for one frame; report it with Shot or ShotFailed.
	Snapshot bool
	// Release asks for the camera stream to be closed.
	Release bool
	// Deliver is set exactly once, when the last photo lands. Photos holds
	// the ordered sequence.
	Deliver bool
}

// Sequencer drives the capture rounds for one frame.
type Sequencer struct {
	shots     int
	state     State
	countdown int
	flash     bool
	photos    []photo.Photo
	err       error
	shotErr   error

	acquired  bool
	released  bool
	delivered bool
	tornDown  bool
}

// New returns a sequencer that waits for the camera and then for a trigger.
func New(shots int) *Sequencer {
	if shots < 1 {
		shots = 1
	}
	return &Sequencer{shots: shots, state: StateAcquiring, photos: make([]photo.Photo, 0, shots)}
}

// CameraReady records a successful acquisition. If the sequencer was torn
// down while waiting, the fresh stream must be released straight away.
func (s *Sequencer) CameraReady() Step {
	s.acquired = true
	if s.tornDown {
		return s.release()
	}
	if s.state == StateAcquiring {
		s.state = StateIdle
	}
	return Step{}
}

// CameraFailed records a classified acquisition error. Capture is disabled
// for the rest of the sequencer's life.
func (s *Sequencer) CameraFailed(err error) Step {
	if s.tornDown || s.state != StateAcquiring {
		return Step{}
	}
	s.state = StateFailed
	s.err = camera.Classify(err)
	return Step{}
}

// Trigger starts a round. It is a no-op while a round is running, once the
// target is reached, before the camera is ready, or after a camera error.
func (s *Sequencer) Trigger() Step {
	if s.tornDown || s.state != StateIdle || len(s.photos) >= s.shots {
		return Step{}
	}
	s.shotErr = nil
	return s.startRound()
}

func (s *Sequencer) startRound() Step {
	s.state = StateCountingDown
	s.countdown = CountdownSeconds
	s.flash = false
	return Step{Schedule: TickInterval}
}

// Tick advances the countdown or ends a pause.
func (s *Sequencer) Tick() Step {
	if s.tornDown {
		return Step{}
	}
	switch s.state {
	case StateCountingDown:
		s.countdown--
		if s.countdown > 0 {
			return Step{Schedule: TickInterval}
		}
		s.state = StateCapturing
		s.flash = true
		return Step{Snapshot: true}
	case StatePaused:
		return s.startRound()
	default:
		return Step{}
	}
}

// Shot appends a snapshot taken in response to Step.Snapshot.
func (s *Sequencer) Shot(p photo.Photo) Step {
	if s.tornDown || s.state != StateCapturing {
		return Step{}
	}
	s.photos = append(s.photos, p)
	if len(s.photos) < s.shots {
		s.state = StatePaused
		return Step{Schedule: Pause}
	}
	s.state = StateDone
	s.flash = false
	step := s.release()
	if !s.delivered {
		s.delivered = true
		step.Deliver = true
	}
	return step
}

// ShotFailed abandons the current round. The user may trigger it again.
func (s *Sequencer) ShotFailed(err error) Step {
	if s.tornDown || s.state != StateCapturing {
		return Step{}
	}
	s.state = StateIdle
	s.flash = false
	s.shotErr = err
	return Step{}
}

// Teardown ends the sequencer. The camera is released if it was acquired and
// not yet released; every later event is ignored.
func (s *Sequencer) Teardown() Step {
	if s.tornDown {
		return Step{}
	}
	s.tornDown = true
	s.flash = false
	return s.release()
}

func (s *Sequencer) release() Step {
	if !s.acquired || s.released {
		return Step{}
	}
	s.released = true
	return Step{Release: true}
}

// State returns the current phase.
func (s *Sequencer) State() State { return s.state }

// Countdown returns the visible countdown value, or 0 outside a countdown.
func (s *Sequencer) Countdown() int {
	if s.state != StateCountingDown {
		return 0
	}
	return s.countdown
}

// Flash reports whether the "captured" overlay is showing.
func (s *Sequencer) Flash() bool { return s.flash }

// Busy reports whether a round is in progress.
func (s *Sequencer) Busy() bool {
	switch s.state {
	case StateCountingDown, StateCapturing, StatePaused:
		return true
	}
	return false
}

// CanTrigger reports whether Trigger would start a round.
func (s *Sequencer) CanTrigger() bool {
	return !s.tornDown && s.state == StateIdle && len(s.photos) < s.shots
}

// Count returns how many photos have been taken.
func (s *Sequencer) Count() int { return len(s.photos) }

// Shots returns the target photo count.
func (s *Sequencer) Shots() int { return s.shots }

// Err returns the classified camera error, if any.
func (s *Sequencer) Err() error { return s.err }

// ShotErr returns the error of the last failed snapshot, if any.
func (s *Sequencer) ShotErr() error { return s.shotErr }

// Delivered reports whether the photo sequence was handed off.
func (s *Sequencer) Delivered() bool { return s.delivered }

// Released reports whether the camera was released.
func (s *Sequencer) Released() bool { return s.released }

// Photos returns a copy of the captured sequence, in capture order.
func (s *Sequencer) Photos() []photo.Photo {
	out := make([]photo.Photo, len(s.photos))
	copy(out, s.photos)
	return out
}
