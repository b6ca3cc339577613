//go:build !linux

package camera

import (
	"context"
	"fmt"
	"runtime"
)

// V4L2 is only available on linux; elsewhere it reports no device.
type V4L2 struct {
	settings Settings
}

// NewV4L2 returns a device for s.Device.
func NewV4L2(s Settings) *V4L2 {
	return &V4L2{settings: s.withDefaults()}
}

func (d *V4L2) Open(context.Context) (Stream, error) {
	return nil, fmt.Errorf("%w: v4l2 unsupported on %s", ErrNotFound, runtime.GOOS)
}
