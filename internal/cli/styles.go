// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#4ECDC4")
	// CriticalColor marks critical alerts.
	CriticalColor = lipgloss.Color("#FF6B6B")
	// WarningColor marks warnings.
	WarningColor = lipgloss.Color("#FFE66D")
	// InfoColor marks informational output.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor marks less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// CriticalStyle formats critical alert lines.
	CriticalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(CriticalColor)

	// WarningStyle formats warning lines.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// InfoStyle formats informational lines.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)
