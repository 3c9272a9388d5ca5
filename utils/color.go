package utils

import (
	"strconv"
	"strings"
)

// ParseHexColor parses a hex color string (like "#FACF24") into an integer for Discord embeds.
// Returns the default red color (0xff0000) if parsing fails.
func ParseHexColor(hexColor string) int {
	colorInt, err := strconv.ParseInt(strings.TrimPrefix(hexColor, "#"), 16, 64)
	if err != nil || colorInt < 0 || colorInt > 0xffffff {
		return 0xff0000
	}
	return int(colorInt)
}
