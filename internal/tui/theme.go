package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, trimmed to the colours the booth uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorCrust    lipgloss.Color = "#11111b"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	subtleStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	textStyle     = lipgloss.NewStyle().Foreground(colorText)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	badgeNormal   = lipgloss.NewStyle().Foreground(colorBase).Background(colorBlue).Padding(0, 1)
	badgeSpecial  = lipgloss.NewStyle().Foreground(colorBase).Background(colorMauve).Padding(0, 1)
	countdownBox  = lipgloss.NewStyle().Bold(true).Foreground(colorPeach).Border(lipgloss.DoubleBorder()).BorderForeground(colorPeach).Padding(1, 4)
	flashBox      = lipgloss.NewStyle().Bold(true).Foreground(colorCrust).Background(colorText).Padding(1, 4)
	viewfinder    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface1).Padding(1, 2)
	errorBanner   = lipgloss.NewStyle().Bold(true).Foreground(colorCrust).Background(colorError).Padding(0, 1)
	noticeBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorWarning).Foreground(colorWarning).Padding(0, 1)
	infoStyle     = lipgloss.NewStyle().Foreground(colorInfo)
	slotStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorSubtext0).Align(lipgloss.Center, lipgloss.Center)
	qrStyle       = lipgloss.NewStyle().Foreground(colorCrust).Background(colorText)
	stripStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
	sharedBadge   = lipgloss.NewStyle().Foreground(colorBase).Background(colorTeal).Padding(0, 1)
	progressStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
)
