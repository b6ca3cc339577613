//go:build linux

package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	"github.com/blackjack/webcam"
)

// pixFmtMJPEG is the V4L2 fourcc for Motion-JPEG.
const pixFmtMJPEG webcam.PixelFormat = 0x47504a4d

// frameTimeout is the per-frame wait in seconds.
const frameTimeout = 5

// V4L2 is a Video4Linux device delivering MJPEG frames.
type V4L2 struct {
	settings Settings
}

// NewV4L2 returns a device for s.Device.
func NewV4L2(s Settings) *V4L2 {
	return &V4L2{settings: s.withDefaults()}
}

func (d *V4L2) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, Classify(err)
	}
	cam, err := webcam.Open(d.settings.Device)
	if err != nil {
		return nil, Classify(fmt.Errorf("open %s: %w", d.settings.Device, err))
	}
	if _, ok := cam.GetSupportedFormats()[pixFmtMJPEG]; !ok {
		_ = cam.Close()
		return nil, Classify(fmt.Errorf("%s: MJPEG not supported", d.settings.Device))
	}
	_, w, h, err := cam.SetImageFormat(pixFmtMJPEG, uint32(d.settings.Width), uint32(d.settings.Height))
	if err != nil {
		_ = cam.Close()
		return nil, Classify(fmt.Errorf("set format: %w", err))
	}
	if err := cam.StartStreaming(); err != nil {
		_ = cam.Close()
		return nil, Classify(fmt.Errorf("start streaming: %w", err))
	}
	return &v4l2Stream{cam: cam, width: int(w), height: int(h)}, nil
}

type v4l2Stream struct {
	mu     sync.Mutex
	cam    *webcam.Webcam
	width  int
	height int
}

func (s *v4l2Stream) Snapshot(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cam == nil {
		return nil, ErrClosed
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := s.cam.WaitForFrame(frameTimeout)
		var timeout *webcam.Timeout
		if errors.As(err, &timeout) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("wait for frame: %w", err)
		}
		buf, err := s.cam.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("read frame: %w", err)
		}
		if len(buf) == 0 {
			continue
		}
		img, err := jpeg.Decode(bytes.NewReader(buf))
		if err != nil {
			return nil, fmt.Errorf("decode frame: %w", err)
		}
		return img, nil
	}
}

func (s *v4l2Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cam == nil {
		return nil
	}
	_ = s.cam.StopStreaming()
	err := s.cam.Close()
	s.cam = nil
	return err
}
