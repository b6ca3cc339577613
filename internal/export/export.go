// Package export flattens a photo strip to a PNG and saves it.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jask/photobooth/internal/frame"
	"github.com/jask/photobooth/internal/photo"
)

const (
	// DefaultPrefix starts every downloaded filename.
	DefaultPrefix = "swayn-photobooth"
	// DefaultWidth is the strip width in pixels before scaling.
	DefaultWidth = 384
	// DefaultScale is the device pixel ratio used when rasterizing.
	DefaultScale = 2
)

var (
	// ErrRasterize wraps any failure to produce the composite image.
	ErrRasterize = errors.New("export: rasterize failed")
	// ErrNoPhotos means the strip is empty.
	ErrNoPhotos = errors.New("export: no photos")
)

// Strip is a frame with its photos in capture order.
type Strip struct {
	Frame  frame.Frame
	Photos []photo.Photo
}

// Layout returns the frame used for placement: one slot per photo, so a
// shared strip with an unexpected count still renders every photo.
func (s Strip) Layout() frame.Frame {
	f := s.Frame
	f.Shots = len(s.Photos)
	return f
}

// Rasterizer renders a styled strip to a single image.
type Rasterizer interface {
	Rasterize(ctx context.Context, s Strip) (image.Image, error)
}

// Exporter produces downloadable composites.
type Exporter struct {
	Rasterizer Rasterizer
	Dir        string
	Prefix     string
	Now        func() time.Time
	Logger     *slog.Logger
}

// Filename returns "<prefix>-<unix millis>.png".
func Filename(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s-%d.png", prefix, t.UnixMilli())
}

// QRFilename returns "<prefix>-<unix millis>-qr.png".
func QRFilename(prefix string, t time.Time) string {
	return strings.TrimSuffix(Filename(prefix, t), ".png") + "-qr.png"
}

// Render rasterizes the strip and encodes it as PNG.
func (e *Exporter) Render(ctx context.Context, s Strip) ([]byte, error) {
	if len(s.Photos) == 0 {
		return nil, ErrNoPhotos
	}
	img, err := e.Rasterizer.Rasterize(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterize, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", ErrRasterize, err)
	}
	return buf.Bytes(), nil
}

// Download renders the strip and writes it into Dir. It returns the path
// written. Failures leave nothing behind and may be retried.
func (e *Exporter) Download(ctx context.Context, s Strip) (string, error) {
	log := e.Logger
	if log == nil {
		log = slog.Default()
	}
	data, err := e.Render(ctx, s)
	if err != nil {
		log.Error("export failed", "frame", s.Frame.ID, "error", err)
		return "", err
	}
	path, err := e.write(Filename(e.Prefix, e.now()), data)
	if err != nil {
		return "", err
	}
	log.Info("exported strip", "frame", s.Frame.ID, "photos", len(s.Photos), "path", path, "bytes", len(data))
	return path, nil
}

// SaveQR writes a share code image into Dir as
// "<prefix>-<unix millis>-qr.png" and returns the path written.
func (e *Exporter) SaveQR(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr png: %w", err)
	}
	path, err := e.write(QRFilename(e.Prefix, e.now()), buf.Bytes())
	if err != nil {
		return "", err
	}
	log := e.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("saved share code", "path", path, "size", img.Bounds().Dx())
	return path, nil
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// write places data at Dir/name through a temp file so a failed write
// leaves nothing behind.
func (e *Exporter) write(name string, data []byte) (string, error) {
	dir := expandHome(e.Dir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, ".photobooth-*.png")
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename export file: %w", err)
	}
	return path, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
