package core

// Color is a foreground color for a screen cell.
type Color uint8

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

// tilePalette assigns a color per tile exponent, wrapping after the last entry.
var tilePalette = []Color{
	ColorGray,          // 2
	ColorWhite,         // 4
	ColorYellow,        // 8
	ColorOrange,        // 16
	ColorRed,           // 32
	ColorBrightRed,     // 64
	ColorBrightYellow,  // 128
	ColorGreen,         // 256
	ColorBrightGreen,   // 512
	ColorCyan,          // 1024
	ColorBrightCyan,    // 2048
	ColorBlue,          // 4096
	ColorBrightBlue,    // 8192
	ColorMagenta,       // 16384
	ColorBrightMagenta, // 32768+
}

// TileColor returns the display color for a tile with the given exponent (value = 2^exp).
func TileColor(exp int) Color {
	if exp <= 0 {
		return ColorDefault
	}
	return tilePalette[(exp-1)%len(tilePalette)]
}
