package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha subset.
var (
	colorSurface1 = lipgloss.Color("#45475A")
	colorText     = lipgloss.Color("#CDD6F4")
	colorSubtext  = lipgloss.Color("#A6ADC8")
	colorDim      = lipgloss.Color("#585B70")

	colorAccent   = lipgloss.Color("#CBA6F7") // mauve, titles
	colorBlue     = lipgloss.Color("#89B4FA") // section headers
	colorGreen    = lipgloss.Color("#A6E3A1") // OK / healthy
	colorYellow   = lipgloss.Color("#F9E2AF") // warning
	colorRed      = lipgloss.Color("#F38BA8") // error / critical
	colorLavender = lipgloss.Color("#B4BEFE")

	colorOK   = colorGreen
	colorWarn = colorYellow
	colorCrit = colorRed
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLavender)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	gaugeTrackStyle = lipgloss.NewStyle().
			Foreground(colorSurface1)

	statusActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	statusCooldownStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCrit)
	statusExpiredStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	statusUnknownStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorDim)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
