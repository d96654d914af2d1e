package model

import (
	"fmt"
	"math"
	"strings"
)

// HSL is a color in hue/saturation/lightness channels. Hue is in degrees,
// saturation and lightness in percent, matching the CSS hsl() notation the
// frontend pushes into its theme variables.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// HexToHSL converts a #rrggbb (or #rgb) color to HSL channels.
func HexToHSL(hex string) (HSL, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return HSL{}, fmt.Errorf("invalid hex color: %q", hex)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return HSL{}, fmt.Errorf("invalid hex color: %q", hex)
	}

	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	l := (max + min) / 2

	if max == min {
		return HSL{H: 0, S: 0, L: round1(l * 100)}, nil
	}

	d := max - min
	var s float64
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	var h float64
	switch max {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	h *= 60

	return HSL{H: round1(h), S: round1(s * 100), L: round1(l * 100)}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
