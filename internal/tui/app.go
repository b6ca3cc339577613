package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/photobooth/internal/camera"
	"github.com/jask/photobooth/internal/capture"
	"github.com/jask/photobooth/internal/export"
	"github.com/jask/photobooth/internal/frame"
	"github.com/jask/photobooth/internal/photo"
	"github.com/jask/photobooth/internal/prefs"
	"github.com/jask/photobooth/internal/session"
	"github.com/jask/photobooth/internal/share"
)

// Options wires the booth's collaborators.
type Options struct {
	Session  *session.Controller
	Location session.Location
	Camera   camera.Device
	Exporter *export.Exporter
	Codec    *share.Codec
	QR       share.Coder
	// BaseURL is the address share links point at.
	BaseURL string
	Quality int
	Logger  *slog.Logger
	// Prefs, if set, remembers the last chosen frame between runs.
	Prefs *prefs.Store
}

// App is the booth's bubbletea model. Exactly one phase view is shown once
// the session has started; a spinner is shown before that.
type App struct {
	ctx      context.Context
	session  *session.Controller
	location session.Location
	camera   camera.Device
	exporter *export.Exporter
	codec    *share.Codec
	qr       share.Coder
	baseURL  string
	quality  int
	log      *slog.Logger
	prefs    *prefs.Store

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	frames  []frame.Frame
	cursor  int

	// capture
	seq      *capture.Sequencer
	stream   camera.Stream
	schedule func(d time.Duration, msg tea.Msg) tea.Cmd

	// preview
	link      string
	qrText    string
	qrErr     error
	exporting bool
	notice    string

	status string
	width  int
}

func New(ctx context.Context, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	codec := opts.Codec
	if codec == nil {
		codec = share.NewCodec()
	}
	var qr share.Coder = share.NewQR()
	if opts.QR != nil {
		qr = opts.QR
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle
	a := &App{
		ctx:      ctx,
		session:  opts.Session,
		location: opts.Location,
		camera:   opts.Camera,
		exporter: opts.Exporter,
		codec:    codec,
		qr:       qr,
		baseURL:  opts.BaseURL,
		quality:  opts.Quality,
		log:      log,
		prefs:    opts.Prefs,
		keys:     defaultKeys(),
		help:     help.New(),
		spinner:  sp,
		frames:   opts.Session.Catalog().All(),
		schedule: func(d time.Duration, msg tea.Msg) tea.Cmd {
			return tea.Tick(d, func(time.Time) tea.Msg { return msg })
		},
	}
	a.restoreCursor()
	return a
}

func (a *App) restoreCursor() {
	if a.prefs == nil {
		return
	}
	p, err := a.prefs.Load()
	if err != nil {
		a.log.Warn("load prefs", "error", err)
		return
	}
	for i, f := range a.frames {
		if f.ID == p.LastFrame {
			a.cursor = i
			return
		}
	}
}

func (a *App) rememberCmd(id string) tea.Cmd {
	store := a.prefs
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		if err := store.Save(prefs.Prefs{LastFrame: id}); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, func() tea.Msg { return startMsg{} })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.help.Width = m.Width
	case spinner.TickMsg:
		if a.session.Initialized() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case startMsg:
		// a rejected share link falls back to frame selection; the
		// controller logs it
		_ = a.session.Start(a.location)
		if a.session.Phase() == session.PhasePreviewing {
			a.enterPreview()
		}
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case cameraMsg:
		return a, a.onCamera(m)
	case tickMsg:
		if m.seq != a.seq {
			return a, nil
		}
		return a, a.apply(m.seq, m.seq.Tick())
	case shotMsg:
		if m.seq != a.seq {
			return a, nil
		}
		if m.err != nil {
			a.log.Warn("snapshot failed", "session", a.session.ID(), "shot", m.seq.Count()+1, "error", m.err)
			return a, a.apply(m.seq, m.seq.ShotFailed(m.err))
		}
		return a, a.apply(m.seq, m.seq.Shot(m.photo))
	case downloadMsg:
		a.exporting = false
		if m.err != nil {
			a.log.Error("download failed", "session", a.session.ID(), "error", m.err)
			a.status = ""
			a.notice = "Download failed: " + m.err.Error()
			return a, nil
		}
		a.log.Info("strip saved", "session", a.session.ID(), "path", m.path)
		a.status = "Saved " + m.path
	case errMsg:
		a.log.Warn("background task failed", "error", m.error)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if key.Matches(m, a.keys.Quit) {
		if cmd := a.teardown(); cmd != nil {
			return tea.Sequence(cmd, tea.Quit)
		}
		return tea.Quit
	}
	if !a.session.Initialized() {
		return nil
	}
	if key.Matches(m, a.keys.Dismiss) {
		a.notice = ""
		return nil
	}
	switch a.session.Phase() {
	case session.PhaseSelecting:
		switch {
		case key.Matches(m, a.keys.Up):
			if a.cursor > 0 {
				a.cursor--
			}
		case key.Matches(m, a.keys.Down):
			if a.cursor < len(a.frames)-1 {
				a.cursor++
			}
		case key.Matches(m, a.keys.Select):
			if len(a.frames) == 0 {
				return nil
			}
			f := a.frames[a.cursor]
			if err := a.session.SelectFrame(f); err != nil {
				a.log.Error("select frame", "error", err)
				return nil
			}
			return tea.Batch(a.enterCapture(), a.rememberCmd(f.ID))
		}
	case session.PhaseCapturing:
		if key.Matches(m, a.keys.Trigger) && a.seq != nil {
			return a.apply(a.seq, a.seq.Trigger())
		}
	case session.PhasePreviewing:
		switch {
		case key.Matches(m, a.keys.Download):
			if a.exporting {
				return nil
			}
			a.exporting = true
			a.notice = ""
			a.status = "Rendering strip..."
			return a.downloadCmd()
		case key.Matches(m, a.keys.Retry):
			if err := a.session.Retry(); err != nil {
				a.log.Error("retry", "error", err)
				return nil
			}
			a.resetPreview()
		}
	}
	return nil
}

// capture

func (a *App) enterCapture() tea.Cmd {
	a.seq = capture.New(a.session.Frame().Shots)
	a.stream = nil
	a.status, a.notice = "", ""
	return a.openCmd(a.seq)
}

func (a *App) openCmd(seq *capture.Sequencer) tea.Cmd {
	dev, ctx := a.camera, a.ctx
	return func() tea.Msg {
		if dev == nil {
			return cameraMsg{seq: seq, err: camera.ErrNotFound}
		}
		st, err := dev.Open(ctx)
		return cameraMsg{seq: seq, stream: st, err: err}
	}
}

func (a *App) onCamera(m cameraMsg) tea.Cmd {
	if m.err != nil {
		m.seq.CameraFailed(m.err)
		if m.seq == a.seq {
			a.log.Warn("camera acquisition failed", "session", a.session.ID(), "error", m.err)
		}
		return nil
	}
	if m.seq != a.seq {
		// the capture was abandoned while the camera was opening
		m.seq.Teardown()
		if m.seq.CameraReady().Release {
			return closeCmd(m.stream)
		}
		return nil
	}
	a.stream = m.stream
	a.log.Debug("camera ready", "session", a.session.ID())
	return a.apply(m.seq, m.seq.CameraReady())
}

// apply performs the work a sequencer step asks for.
func (a *App) apply(seq *capture.Sequencer, step capture.Step) tea.Cmd {
	var cmds []tea.Cmd
	if step.Release {
		cmds = append(cmds, closeCmd(a.stream))
		a.stream = nil
	}
	if step.Snapshot {
		cmds = append(cmds, a.snapshotCmd(seq, a.stream))
	}
	if step.Schedule > 0 {
		cmds = append(cmds, a.schedule(step.Schedule, tickMsg{seq: seq}))
	}
	if step.Deliver {
		a.deliver(seq)
	}
	return tea.Batch(cmds...)
}

func (a *App) snapshotCmd(seq *capture.Sequencer, st camera.Stream) tea.Cmd {
	ctx, quality := a.ctx, a.quality
	return func() tea.Msg {
		if st == nil {
			return shotMsg{seq: seq, err: camera.ErrClosed}
		}
		img, err := st.Snapshot(ctx)
		if err != nil {
			return shotMsg{seq: seq, err: err}
		}
		p, err := photo.Snapshot(img, quality)
		return shotMsg{seq: seq, photo: p, err: err}
	}
}

func closeCmd(st camera.Stream) tea.Cmd {
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		if err := st.Close(); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (a *App) deliver(seq *capture.Sequencer) {
	a.seq = nil
	if err := a.session.CompleteCapture(seq.Photos()); err != nil {
		a.log.Error("complete capture", "session", a.session.ID(), "error", err)
		if aerr := a.session.Abandon(); aerr != nil {
			a.log.Error("abandon capture", "session", a.session.ID(), "error", aerr)
		}
		a.notice = "The photos could not be put together. Choose a frame to try again."
		return
	}
	a.enterPreview()
}

// teardown abandons any capture in progress and returns the command that
// releases its camera.
func (a *App) teardown() tea.Cmd {
	if a.seq == nil {
		return nil
	}
	step := a.seq.Teardown()
	st := a.stream
	a.seq, a.stream = nil, nil
	if step.Release {
		return closeCmd(st)
	}
	return nil
}

// preview

func (a *App) enterPreview() {
	a.resetPreview()
	if a.session.Shared() {
		return
	}
	link, err := a.codec.Link(a.baseURL, a.session.Frame().ID, a.session.Photos())
	if err != nil {
		a.qrErr = err
		a.log.Warn("share link unavailable", "session", a.session.ID(), "error", err)
		return
	}
	a.link = link
	bm, err := a.qr.Bitmap(link)
	if err != nil {
		a.qrErr = err
		if errors.Is(err, share.ErrTooLong) {
			a.log.Info("share link too long for a QR code", "session", a.session.ID(), "bytes", len(link))
		} else {
			a.log.Warn("share code unavailable", "session", a.session.ID(), "error", err)
		}
		return
	}
	a.qrText = share.Terminal(bm)
}

func (a *App) resetPreview() {
	a.link, a.qrText, a.qrErr = "", "", nil
	a.notice, a.status = "", ""
	a.exporting = false
}

func (a *App) downloadCmd() tea.Cmd {
	ctx, exp := a.ctx, a.exporter
	strip := export.Strip{Frame: a.session.Frame(), Photos: a.session.Photos()}
	return func() tea.Msg {
		if exp == nil {
			return downloadMsg{err: errors.New("no exporter configured")}
		}
		path, err := exp.Download(ctx, strip)
		return downloadMsg{path: path, err: err}
	}
}

// ShareLink returns the share link of the current local capture, if any.
func (a *App) ShareLink() string { return a.link }
