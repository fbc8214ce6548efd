package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette, true-color hex values.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
	colorCrust    lipgloss.Color = "#11111b"
)

// Semantic aliases.
const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	cellStyle       = lipgloss.NewStyle().Foreground(colorText).Background(colorBase)
	gridLineStyle   = lipgloss.NewStyle().Foreground(colorSurface1).Background(colorBase)
	selectedStyle   = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface1)
	activeCellStyle = lipgloss.NewStyle().Foreground(colorCrust).Background(colorFocus).Bold(true)
	antsOnStyle     = lipgloss.NewStyle().Foreground(colorCrust).Background(colorPeach)
	antsOffStyle    = lipgloss.NewStyle().Foreground(colorPeach).Background(colorSurface0)
	errorCellStyle  = lipgloss.NewStyle().Foreground(colorError).Background(colorBase)

	headerStyle       = lipgloss.NewStyle().Foreground(colorSubtext0).Background(colorMantle)
	headerActiveStyle = lipgloss.NewStyle().Foreground(colorCrust).Background(colorBlue).Bold(true)
	headerLastStyle   = lipgloss.NewStyle().Foreground(colorBlue).Background(colorSurface0)
	cornerStyle       = lipgloss.NewStyle().Foreground(colorOverlay0).Background(colorCrust)

	formulaBarStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorMantle)
	refStyle        = lipgloss.NewStyle().Foreground(colorAccent).Background(colorMantle).Bold(true)
	statusBarStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Background(colorSurface0)
	statusErrStyle  = lipgloss.NewStyle().Foreground(colorError).Background(colorSurface0)
	statsStyle      = lipgloss.NewStyle().Foreground(colorInfo).Background(colorSurface0)
	confirmStyle    = lipgloss.NewStyle().Foreground(colorCrust).Background(colorWarning).Bold(true)
	promptStyle     = lipgloss.NewStyle().Foreground(colorMauve).Bold(true)
	hintStyle       = lipgloss.NewStyle().Foreground(colorSurface2)
)
