package model

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

// KeyColor is a 24-bit RGB key color used for chroma keying.
type KeyColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the uppercase hex form without a '#' prefix, e.g. "00FF00".
func (c KeyColor) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

func (c KeyColor) String() string {
	return "#" + c.Hex()
}

// ParseKeyColor parses a hex color string ("00FF00" or "#00ff00") into a
// KeyColor. The leading '#' is optional and case is ignored.
func ParseKeyColor(s string) (KeyColor, error) {
	hex := strings.ToUpper(strings.TrimPrefix(s, "#"))
	if !hexColorPattern.MatchString(hex) {
		return KeyColor{}, fmt.Errorf("%w: invalid hex color %q, expected 6 hex digits", ErrInvalidParameter, s)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02X%02X%02X", &r, &g, &b); err != nil {
		return KeyColor{}, fmt.Errorf("%w: invalid hex color %q", ErrInvalidParameter, s)
	}

	return KeyColor{R: r, G: g, B: b}, nil
}
