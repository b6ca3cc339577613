package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/photobooth/internal/camera"
	"github.com/jask/photobooth/internal/capture"
	"github.com/jask/photobooth/internal/export"
	"github.com/jask/photobooth/internal/frame"
	"github.com/jask/photobooth/internal/session"
	"github.com/jask/photobooth/internal/share"
)

func (a *App) View() string {
	if !a.session.Initialized() {
		return "\n  " + a.spinner.View() + " Loading photobooth...\n"
	}
	var body string
	switch a.session.Phase() {
	case session.PhaseCapturing:
		body = a.renderCapturing()
	case session.PhasePreviewing:
		body = a.renderPreview()
	default:
		body = a.renderSelecting()
	}
	var b strings.Builder
	b.WriteString(body)
	if a.notice != "" {
		b.WriteString("\n\n" + noticeBox.Render(a.notice+"  "+subtleStyle.Render("(esc to dismiss)")))
	}
	if a.status != "" {
		b.WriteString("\n\n" + infoStyle.Render(a.status))
	}
	b.WriteString("\n\n" + a.help.ShortHelpView(a.footerBindings()))
	return b.String()
}

func (a *App) footerBindings() []key.Binding {
	var bs []key.Binding
	switch a.session.Phase() {
	case session.PhaseCapturing:
		bs = []key.Binding{a.keys.Trigger}
	case session.PhasePreviewing:
		bs = []key.Binding{a.keys.Download, a.keys.Retry}
	default:
		bs = []key.Binding{a.keys.Up, a.keys.Down, a.keys.Select}
	}
	if a.notice != "" {
		bs = append(bs, a.keys.Dismiss)
	}
	return append(bs, a.keys.Quit)
}

func (a *App) renderSelecting() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose a frame") + "\n\n")
	for i, f := range a.frames {
		cursor := "  "
		name := textStyle.Render(f.Name)
		if i == a.cursor {
			cursor = cursorStyle.Render("▶ ")
			name = cursorStyle.Render(f.Name)
		}
		badge := badgeNormal
		if f.Category == frame.CategorySpecial {
			badge = badgeSpecial
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", cursor, badge.Render(f.Category.Label()), name, subtleStyle.Render(shotsLabel(f.Shots)))
	}
	return b.String()
}

func shotsLabel(n int) string {
	if n == 1 {
		return "(1 photo)"
	}
	return fmt.Sprintf("(%d photos)", n)
}

func (a *App) renderCapturing() string {
	f := a.session.Frame()
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.Name) + "\n\n")
	seq := a.seq
	if seq == nil {
		return b.String()
	}
	if err := seq.Err(); err != nil {
		b.WriteString(errorBanner.Render(camera.Message(err)) + "\n\n")
	}
	b.WriteString(viewfinder.Render(a.viewfinderContent(seq)) + "\n\n")
	b.WriteString(progressStyle.Render(fmt.Sprintf("%d / %d", seq.Count(), seq.Shots())))
	if seq.ShotErr() != nil {
		b.WriteString("\n\n" + noticeBox.Render("The snapshot did not come through. Press space to try again."))
	}
	return b.String()
}

func (a *App) viewfinderContent(seq *capture.Sequencer) string {
	switch {
	case seq.Err() != nil:
		return subtleStyle.Render("Camera off")
	case seq.State() == capture.StateAcquiring:
		return subtleStyle.Render("Starting camera...")
	case seq.Flash():
		return flashBox.Render("Snap!")
	case seq.Countdown() > 0:
		return countdownBox.Render(fmt.Sprint(seq.Countdown()))
	case seq.CanTrigger():
		return textStyle.Render("Camera live. Press space to start.")
	default:
		return textStyle.Render("Get ready...")
	}
}

func (a *App) renderPreview() string {
	f := a.session.Frame()
	photos := a.session.Photos()
	title := titleStyle.Render(f.Name)
	if a.session.Shared() {
		title += " " + sharedBadge.Render("Shared strip")
	}
	strip := stripStyle.Render(sketch(export.Strip{Frame: f, Photos: photos}.Layout()))
	side := a.renderShare()
	body := strip
	if side != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, strip, "   ", side)
	}
	return title + "\n\n" + body
}

func (a *App) renderShare() string {
	if a.session.Shared() {
		return ""
	}
	switch {
	case a.qrText != "":
		return qrStyle.Render(a.qrText) + "\n" + subtleStyle.Render("Scan to open this strip on your phone")
	case errors.Is(a.qrErr, share.ErrTooLong):
		return subtleStyle.Render("This strip is too large for a QR code.\nDownload it with d.")
	case a.qrErr != nil:
		return subtleStyle.Render("Share code unavailable.")
	default:
		return ""
	}
}

// sketch draws the strip's slot arrangement in capture order.
func sketch(f frame.Frame) string {
	const stripCols = 24
	cols := f.Columns()
	w := stripCols / cols
	aspect := f.Style.SlotAspect
	h := 3
	if len(aspect) == 2 && aspect[0] > 0 {
		// terminal cells are about twice as tall as wide
		h = max(1, w*aspect[1]/aspect[0]/2)
	}
	slot := slotStyle.Width(w).Height(h)
	var rows []string
	for r := 0; r < f.Rows(); r++ {
		var cells []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= f.Shots {
				break
			}
			cells = append(cells, slot.Render(fmt.Sprint(i+1)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
