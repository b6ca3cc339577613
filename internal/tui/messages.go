package tui

import (
	"github.com/jask/photobooth/internal/camera"
	"github.com/jask/photobooth/internal/capture"
	"github.com/jask/photobooth/internal/photo"
)

// Capture messages carry the sequencer they were issued for. A message whose
// sequencer is no longer current belongs to an abandoned capture.

type startMsg struct{}

type cameraMsg struct {
	seq    *capture.Sequencer
	stream camera.Stream
	err    error
}

type tickMsg struct {
	seq *capture.Sequencer
}

type shotMsg struct {
	seq   *capture.Sequencer
	photo photo.Photo
	err   error
}

type downloadMsg struct {
	path string
	err  error
}

type errMsg struct{ error }
