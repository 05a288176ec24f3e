package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Nazgutek/ajour/internal/addons"
)

// Color palette
var (
	Primary   = lipgloss.Color("#7D56F4") // Purple
	Secondary = lipgloss.Color("#FF79C6") // Pink accent
	Success   = lipgloss.Color("#50FA7B") // Green
	Warning   = lipgloss.Color("#FFB86C") // Orange
	Error     = lipgloss.Color("#FF5555") // Red
	Muted     = lipgloss.Color("#6272A4") // Muted blue-gray
	Text      = lipgloss.Color("#F8F8F2") // Light text
)

// Base styles
var (
	// Title style for table headers
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFDF5")).
		Background(Primary).
		Padding(0, 1).
		Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	SuccessText = lipgloss.NewStyle().
			Foreground(Success)

	WarningText = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)

	Highlighted = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

// Symbols
var (
	CheckMark = lipgloss.NewStyle().Foreground(Success).SetString("✓")
	CrossMark = lipgloss.NewStyle().Foreground(Error).SetString("✗")
	Arrow     = lipgloss.NewStyle().Foreground(Primary).SetString("→")
)

var (
	stateIgnored  = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	stateBusy     = lipgloss.NewStyle().Foreground(Primary)
	stateIdle     = lipgloss.NewStyle().Foreground(Text)
	channelStable = lipgloss.NewStyle().Foreground(Success)
	channelBeta   = lipgloss.NewStyle().Foreground(Warning)
	channelAlpha  = lipgloss.NewStyle().Foreground(Error)
)

// FormatState returns a styled addon state
func FormatState(s addons.State) string {
	switch s.Kind {
	case addons.StateIgnored:
		return stateIgnored.Render(s.String())
	case addons.StateUpdatable:
		return FormatUpdateAvailable()
	case addons.StateDownloading, addons.StateFingerprinting, addons.StateUnpacking:
		return stateBusy.Render(s.String())
	default:
		return stateIdle.Render(s.String())
	}
}

// FormatChannel returns a styled release channel
func FormatChannel(c addons.ReleaseChannel) string {
	switch c {
	case addons.ReleaseChannelBeta:
		return channelBeta.Render(c.String())
	case addons.ReleaseChannelAlpha:
		return channelAlpha.Render(c.String())
	default:
		return channelStable.Render(c.String())
	}
}

// FormatUpdateAvailable returns a styled "update available" indicator
func FormatUpdateAvailable() string {
	style := lipgloss.NewStyle().Foreground(Primary).Bold(true)
	return style.Render("↑ update")
}

// FormatSuccess formats a success message
func FormatSuccess(msg string) string {
	return CheckMark.String() + " " + SuccessText.Render(msg)
}

// FormatError formats an error message
func FormatError(msg string) string {
	return CrossMark.String() + " " + ErrorText.Render(msg)
}

// FormatWarning formats a warning message
func FormatWarning(msg string) string {
	return WarningText.Render("! " + msg)
}

// OrDash renders empty values as a muted dash
func OrDash(s string) string {
	if s == "" {
		return MutedText.Render("-")
	}
	return s
}
