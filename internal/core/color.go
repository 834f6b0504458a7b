package core

import "strings"

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// PawnPalette returns the seat colors handed out to players, in seat order.
// Seats beyond the palette wrap around.
func PawnPalette() []Color {
	return []Color{
		ColorBrightCyan,
		ColorBrightYellow,
		ColorBrightMagenta,
		ColorBrightGreen,
		ColorOrange,
		ColorBrightRed,
	}
}

// PawnColor returns the palette color for a zero-based seat index.
func PawnColor(seat int) Color {
	palette := PawnPalette()
	if seat < 0 {
		seat = 0
	}
	return palette[seat%len(palette)]
}

// ParseColor resolves a color name from configuration files.
// Matching is case-insensitive. Returns false for unknown names.
func ParseColor(name string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "default":
		return ColorDefault, true
	case "red":
		return ColorRed, true
	case "green":
		return ColorGreen, true
	case "yellow":
		return ColorYellow, true
	case "blue":
		return ColorBlue, true
	case "magenta":
		return ColorMagenta, true
	case "cyan":
		return ColorCyan, true
	case "white":
		return ColorWhite, true
	case "bright-red":
		return ColorBrightRed, true
	case "bright-green":
		return ColorBrightGreen, true
	case "bright-yellow":
		return ColorBrightYellow, true
	case "bright-blue":
		return ColorBrightBlue, true
	case "bright-magenta":
		return ColorBrightMagenta, true
	case "bright-cyan":
		return ColorBrightCyan, true
	case "bright-white":
		return ColorBrightWhite, true
	case "orange":
		return ColorOrange, true
	case "gray", "grey":
		return ColorGray, true
	default:
		return ColorDefault, false
	}
}
