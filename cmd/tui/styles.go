package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI
var (
	primaryColor   = lipgloss.Color("#4285F4") // Blue
	secondaryColor = lipgloss.Color("#34A853") // Green
	accentColor    = lipgloss.Color("#FBBC05") // Amber
	errorColor     = lipgloss.Color("#EA4335") // Red

	fgColor     = lipgloss.Color("#CDD6F4") // Light foreground
	mutedColor  = lipgloss.Color("#70757A") // Muted text
	borderColor = lipgloss.Color("#45475A") // Border
	selectedBg  = lipgloss.Color("#313244") // Selected background
	highlightBg = lipgloss.Color("#45475A") // Highlight background
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(primaryColor).
	MarginBottom(1).
	Padding(0, 1)

var subtitleStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	Italic(true)

// menuItemStyle renders inactive tabs
var menuItemStyle = lipgloss.NewStyle().
	Foreground(fgColor).
	Padding(0, 2)

// selectedMenuItemStyle renders the active tab
var selectedMenuItemStyle = lipgloss.NewStyle().
	Foreground(primaryColor).
	Bold(true).
	Background(selectedBg).
	Underline(true).
	Padding(0, 2)

var cursorStyle = lipgloss.NewStyle().
	Foreground(accentColor).
	Bold(true)

var helpStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	MarginTop(1)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(borderColor).
	Padding(1, 2)

var successStyle = lipgloss.NewStyle().
	Foreground(secondaryColor).
	Bold(true)

var warningStyle = lipgloss.NewStyle().
	Foreground(accentColor).
	Bold(true)

var errorStyle = lipgloss.NewStyle().
	Foreground(errorColor).
	Bold(true)

var inputLabelStyle = lipgloss.NewStyle().
	Foreground(primaryColor).
	Bold(true)

var progressStyle = lipgloss.NewStyle().
	Foreground(accentColor)

// statusBarStyle renders the footer
var statusBarStyle = lipgloss.NewStyle().
	Foreground(mutedColor).
	Background(highlightBg).
	Padding(0, 1)

// GetTitleStyle returns the title style
func GetTitleStyle() lipgloss.Style {
	return titleStyle
}

// GetSubtitleStyle returns the subtitle style
func GetSubtitleStyle() lipgloss.Style {
	return subtitleStyle
}

// GetMenuItemStyle returns the inactive tab style
func GetMenuItemStyle() lipgloss.Style {
	return menuItemStyle
}

// GetSelectedMenuItemStyle returns the active tab style
func GetSelectedMenuItemStyle() lipgloss.Style {
	return selectedMenuItemStyle
}

// GetCursorStyle returns the cursor style
func GetCursorStyle() lipgloss.Style {
	return cursorStyle
}

// GetHelpStyle returns the help style
func GetHelpStyle() lipgloss.Style {
	return helpStyle
}

// GetBoxStyle returns the box style
func GetBoxStyle() lipgloss.Style {
	return boxStyle
}

// GetSuccessStyle returns the success style
func GetSuccessStyle() lipgloss.Style {
	return successStyle
}

// GetWarningStyle returns the warning style
func GetWarningStyle() lipgloss.Style {
	return warningStyle
}

// GetErrorStyle returns the error style
func GetErrorStyle() lipgloss.Style {
	return errorStyle
}

// GetInputLabelStyle returns the input label style
func GetInputLabelStyle() lipgloss.Style {
	return inputLabelStyle
}

// GetProgressStyle returns the progress style
func GetProgressStyle() lipgloss.Style {
	return progressStyle
}

// GetStatusBarStyle returns the status bar style
func GetStatusBarStyle() lipgloss.Style {
	return statusBarStyle
}
