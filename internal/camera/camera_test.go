package camera

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	require.NoError(t, Classify(nil))
	require.ErrorIs(t, Classify(fmt.Errorf("open: %w", fs.ErrNotExist)), ErrNotFound)
	require.ErrorIs(t, Classify(syscall.ENODEV), ErrNotFound)
	require.ErrorIs(t, Classify(fs.ErrPermission), ErrUnavailable)
	require.ErrorIs(t, Classify(errors.New("busy")), ErrUnavailable)
	require.ErrorIs(t, Classify(ErrNotFound), ErrNotFound)
}

func TestMessage(t *testing.T) {
	t.Parallel()

	require.Contains(t, Message(ErrNotFound), "No camera found")
	require.Contains(t, Message(ErrUnavailable), "permission")
}

func TestFailingDevice(t *testing.T) {
	t.Parallel()

	_, err := Failing{Err: fs.ErrNotExist}.Open(context.Background())
	require.ErrorIs(t, err, ErrNotFound)

	_, err = Failing{Err: fs.ErrPermission}.Open(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestPatternStream(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dev := NewPattern(Settings{Width: 70, Height: 42})
	s, err := dev.Open(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, dev.Opened())

	a, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 70, a.Bounds().Dx())
	require.Equal(t, 42, a.Bounds().Dy())

	b, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.NotEqual(t, a.At(0, 41), b.At(0, 41), "marker should move between shots")

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, err = s.Snapshot(ctx)
	require.ErrorIs(t, err, ErrClosed)
}

func TestNewDriver(t *testing.T) {
	t.Parallel()

	d, err := New("pattern", Settings{})
	require.NoError(t, err)
	require.IsType(t, &Pattern{}, d)

	d, err = New("", Settings{})
	require.NoError(t, err)
	require.IsType(t, &V4L2{}, d)

	_, err = New("gopro", Settings{})
	require.Error(t, err)
}
