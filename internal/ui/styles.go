// Package ui provides the terminal gesture pad and consistent styling for the
// waygesture CLI
package ui

import (
	"fmt"
	"strings"

	"github.com/bnema/waygesture/internal/gesture"
	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	// Primary colors
	ColorPrimary   = lipgloss.Color("39")  // Bright blue
	ColorSecondary = lipgloss.Color("205") // Pink/magenta
	ColorSuccess   = lipgloss.Color("82")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorError     = lipgloss.Color("196") // Red
	ColorInfo      = lipgloss.Color("86")  // Cyan

	// Neutral colors
	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
	ColorMuted  = lipgloss.Color("238") // Dark gray
)

// Base styles
var (
	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	ControlKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	ControlDescStyle = lipgloss.NewStyle().
				Foreground(ColorText)

	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Gesture colors, keyed by event type
var gestureColors = map[string]lipgloss.Color{
	gesture.EventClick:      ColorSuccess,
	gesture.EventPressDown:  ColorSubtle,
	gesture.EventPressUp:    ColorSubtle,
	gesture.EventDragStart:  ColorPrimary,
	gesture.EventDrag:       ColorMuted,
	gesture.EventDragEnd:    ColorPrimary,
	gesture.EventSwipeLeft:  ColorSecondary,
	gesture.EventSwipeRight: ColorSecondary,
}

// Icons
var (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconSetup   = "»"
	IconPhase   = "·"
)

// GestureStyle returns the style used to log events of typ.
func GestureStyle(typ string) lipgloss.Style {
	c, ok := gestureColors[typ]
	if !ok {
		c = ColorText
	}
	return lipgloss.NewStyle().Foreground(c).Bold(typ == gesture.EventClick)
}

// FormatGesture renders one gesture log line.
func FormatGesture(timestamp, typ string, x, y float64) string {
	return fmt.Sprintf("  %s %s %s",
		timeStyle.Render(timestamp),
		GestureStyle(typ).Render(fmt.Sprintf("%-10s", typ)),
		SubtleStyle.Render(fmt.Sprintf("(%.0f, %.0f)", x, y)))
}

// FormatNotice renders a log line that is not a gesture.
func FormatNotice(timestamp, message string) string {
	return fmt.Sprintf("  %s %s",
		timeStyle.Render(timestamp),
		WarningStyle.Render(message))
}

func FormatControl(key, desc string) string {
	return ControlKeyStyle.Render(key) + " - " + ControlDescStyle.Render(desc)
}

// Setup formatting functions
func FormatSetupHeader(title string) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).
		Render(InfoStyle.Render(IconSetup) + " " + title)
	return header + "\n" + CreateSeparator(50, "─")
}

func FormatSetupResult(success bool, step, message string) string {
	icon := SuccessStyle.Render(IconSuccess)
	style := SuccessStyle
	if !success {
		icon = ErrorStyle.Render(IconError)
		style = ErrorStyle
	}

	result := "   " + icon + " " + step
	if message != "" {
		result += " - " + style.Render(message)
	}
	return result
}

// CreateSeparator creates a horizontal line separator
func CreateSeparator(width int, char string) string {
	if width <= 0 {
		width = 50 // Default width
	}
	if char == "" {
		char = "─"
	}

	return lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Render(strings.Repeat(char, width))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
