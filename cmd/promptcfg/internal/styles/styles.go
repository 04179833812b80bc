package styles

import "github.com/charmbracelet/lipgloss"

// Terminal palette.
var (
	ColorMuted   = lipgloss.Color("8")
	ColorAccent  = lipgloss.Color("4")
	ColorError   = lipgloss.Color("1")
	ColorSuccess = lipgloss.Color("2")
	ColorWarning = lipgloss.Color("3")
	ColorMagenta = lipgloss.Color("5")
)

// Centralized style definitions for the CLI.
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	DimStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)

	// Variable status styles used by `vars`.
	VarSetStyle     = lipgloss.NewStyle().Foreground(ColorSuccess)
	VarMissingStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)

	// Error block style.
	ErrorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(ColorError)

	// Picker styles.
	PickerBorder    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorAccent).Padding(0, 1)
	PickerCurStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	PickerDimStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	PickerHintStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	PickerTagStyle  = lipgloss.NewStyle().Foreground(ColorMagenta)
)
