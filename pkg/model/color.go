package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a parsed RGBA color. The zero value is fully transparent.
type Color struct {
	R, G, B, A uint8
}

// ParseColor parses "RRGGBB" or "RRGGBBAA" hex, with or without a leading
// "#", plus "transparent" in any case and the empty string. "transparent"
// and "" yield a fully transparent color; anything unparseable falls back to
// opaque black. Surrounding whitespace is ignored.
func ParseColor(s string) Color {
	if s == "" || strings.EqualFold(s, "transparent") {
		return Color{}
	}
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if v, err := strconv.ParseUint(hex, 16, 64); err == nil {
		switch len(hex) {
		case 6:
			return Color{
				R: uint8(v >> 16),
				G: uint8(v >> 8),
				B: uint8(v),
				A: 255,
			}
		case 8:
			return Color{
				R: uint8(v >> 24),
				G: uint8(v >> 16),
				B: uint8(v >> 8),
				A: uint8(v),
			}
		}
	}
	return Color{A: 255}
}

// IsTransparent reports whether the color draws nothing.
func (c Color) IsTransparent() bool {
	return c.A == 0
}

// Hex returns the color as "#rrggbb", dropping any alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Alpha returns the alpha channel as a fraction in [0,1].
func (c Color) Alpha() float64 {
	return float64(c.A) / 255
}
