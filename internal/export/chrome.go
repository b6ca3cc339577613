package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jask/photobooth/internal/frame"
)

// renderTimeout bounds one browser render.
const renderTimeout = 30 * time.Second

// Chrome rasterizes the strip's HTML rendering with a headless browser, the
// same way the page itself would be captured.
type Chrome struct {
	Width int
	Scale int
	// RemoteURL connects to an already running browser instead of
	// launching one.
	RemoteURL string
	Logger    *slog.Logger
}

var stripTemplate = template.Must(template.New("strip").Parse(`<!doctype html>
<html><head><meta charset="utf-8"><style>
html,body{margin:0;padding:0;background:transparent}
#strip{box-sizing:border-box;width:{{.Width}}px;padding:{{.Style.Padding}}px;gap:{{.Style.Gap}}px;border-radius:8px;background:{{.Background}};{{.LayoutCSS}}}
.slot{box-sizing:border-box;overflow:hidden;aspect-ratio:{{.AspectW}}/{{.AspectH}};border-radius:{{.Style.SlotRadius}}px;{{if .Style.Border}}border:{{.Style.Border}}px solid {{.BorderColor}};{{end}}{{if .Style.Shadow}}box-shadow:0 3px 8px rgba(0,0,0,.3);{{end}}}
.slot img{display:block;width:100%;height:100%;object-fit:cover}
</style></head><body>
<div id="strip">{{range .Photos}}<div class="slot"><img src="{{.}}"></div>{{end}}</div>
</body></html>`))

type stripView struct {
	Width       int
	Style       frame.Style
	Background  template.CSS
	BorderColor template.CSS
	LayoutCSS   template.CSS
	AspectW     int
	AspectH     int
	Photos      []template.URL
}

// HTML renders the strip document.
func HTML(s Strip, width int) (string, error) {
	f := s.Layout()
	view := stripView{
		Width:       width,
		Style:       f.Style,
		BorderColor: template.CSS(f.Style.BorderColor),
		AspectW:     f.Style.SlotAspect[0],
		AspectH:     f.Style.SlotAspect[1],
	}
	switch bg := f.Style.Background; len(bg) {
	case 1:
		view.Background = template.CSS(bg[0])
	default:
		view.Background = template.CSS("linear-gradient(to bottom right," + strings.Join(bg, ",") + ")")
	}
	if f.Layout == frame.LayoutGrid {
		view.LayoutCSS = template.CSS(fmt.Sprintf("display:grid;grid-template-columns:repeat(%d,1fr)", f.Columns()))
	} else {
		view.LayoutCSS = "display:flex;flex-direction:column"
	}
	for _, p := range s.Photos {
		view.Photos = append(view.Photos, template.URL(p.DataURL()))
	}
	var buf bytes.Buffer
	if err := stripTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render strip html: %w", err)
	}
	return buf.String(), nil
}

func (c *Chrome) Rasterize(ctx context.Context, s Strip) (image.Image, error) {
	log := c.Logger
	if log == nil {
		log = slog.Default()
	}
	width, scale := c.Width, c.Scale
	if width <= 0 {
		width = DefaultWidth
	}
	if scale <= 0 {
		scale = DefaultScale
	}
	doc, err := HTML(s, width)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	wsURL := c.RemoteURL
	if wsURL == "" {
		l := launcher.New().Headless(true).Context(ctx)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		defer l.Cleanup()
		wsURL = u
		log.Debug("browser: launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Warn("browser: close", "error", err)
		}
	}()

	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            width,
		DeviceScaleFactor: float64(scale),
	}); err != nil {
		return nil, fmt.Errorf("browser: viewport: %w", err)
	}
	if err := page.SetDocumentContent(doc); err != nil {
		return nil, fmt.Errorf("browser: set content: %w", err)
	}
	if _, err := page.Eval(`() => Promise.all(Array.from(document.images).map(i => i.decode()))`); err != nil {
		return nil, fmt.Errorf("browser: decode images: %w", err)
	}
	el, err := page.Element("#strip")
	if err != nil {
		return nil, fmt.Errorf("browser: find strip: %w", err)
	}
	shot, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("browser: decode screenshot: %w", err)
	}
	return img, nil
}

// NewRasterizer builds the rasterizer named by renderer.
func NewRasterizer(renderer string, width, scale int, remoteURL string, log *slog.Logger) (Rasterizer, error) {
	switch strings.ToLower(strings.TrimSpace(renderer)) {
	case "", "canvas":
		return &Canvas{Width: width, Scale: scale}, nil
	case "chrome":
		return &Chrome{Width: width, Scale: scale, RemoteURL: remoteURL, Logger: log}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", renderer)
	}
}
