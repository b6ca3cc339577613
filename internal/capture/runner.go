package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jask/photobooth/internal/camera"
	"github.com/jask/photobooth/internal/photo"
)

// Clock is the single timer a Runner waits on.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

// RealClock waits on wall-clock time.
type RealClock struct{}

func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Runner drives a Sequencer to completion without a UI: the first round is
// triggered immediately and the rest chain automatically.
type Runner struct {
	Device  camera.Device
	Clock   Clock
	Quality int
	Logger  *slog.Logger
	// Observe, if set, is called after every event.
	Observe func(*Sequencer)
}

// Run captures shots photos. The camera is released on every return path.
func (r *Runner) Run(ctx context.Context, shots int) ([]photo.Photo, error) {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}
	clock := r.Clock
	if clock == nil {
		clock = RealClock{}
	}
	seq := New(shots)
	observe := func() {
		if r.Observe != nil {
			r.Observe(seq)
		}
	}

	stream, err := r.Device.Open(ctx)
	if err != nil {
		seq.CameraFailed(err)
		observe()
		log.Warn("camera acquisition failed", "error", err)
		return nil, seq.Err()
	}
	release := func() {
		if cerr := stream.Close(); cerr != nil {
			log.Warn("camera release failed", "error", cerr)
		}
	}
	defer func() {
		if seq.Teardown().Release {
			release()
		}
	}()

	seq.CameraReady()
	step := seq.Trigger()
	observe()
	for {
		if step.Release {
			release()
		}
		if step.Deliver {
			log.Info("capture complete", "shots", seq.Count())
			return seq.Photos(), nil
		}
		switch {
		case step.Snapshot:
			img, err := stream.Snapshot(ctx)
			if err == nil {
				var p photo.Photo
				p, err = photo.Snapshot(img, r.Quality)
				if err == nil {
					step = seq.Shot(p)
					observe()
					continue
				}
			}
			seq.ShotFailed(err)
			observe()
			return nil, fmt.Errorf("snapshot %d: %w", seq.Count()+1, err)
		case step.Schedule > 0:
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-clock.After(step.Schedule):
			}
			step = seq.Tick()
			observe()
		default:
			return nil, fmt.Errorf("capture stalled in state %s", seq.State())
		}
	}
}
