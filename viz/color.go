package viz

import (
	"image/color"
	"math"

	"github.com/ecomonitor/windflow/field"
)

// Scheme selects how particle color is derived.
type Scheme uint8

const (
	// SchemeSpeed colors particles by wind speed bands.
	SchemeSpeed Scheme = iota
	// SchemeDirection colors particles by wind direction hue.
	SchemeDirection
)

// ParseScheme maps a config string to a Scheme; unknown values fall back to speed.
func ParseScheme(s string) Scheme {
	if s == "direction" {
		return SchemeDirection
	}
	return SchemeSpeed
}

// Background is the trail surface backdrop.
var Background = color.RGBA{R: 12, G: 18, B: 28, A: 255}

// speedBand is one color bucket of the speed scheme.
type speedBand struct {
	max     float64 // upper bound in m/s, exclusive
	r, g, b uint8
}

// Thresholds loosely follow Beaufort boundaries.
var speedBands = []speedBand{
	{max: 0.5, r: 132, g: 144, b: 160},  // calm
	{max: 3.3, r: 86, g: 180, b: 233},   // light breeze
	{max: 5.5, r: 80, g: 200, b: 130},   // gentle breeze
	{max: 8.0, r: 222, g: 205, b: 80},   // moderate breeze
	{max: 10.8, r: 235, g: 148, b: 60},  // fresh breeze
	{max: 13.9, r: 233, g: 92, b: 60},   // strong breeze
	{max: math.Inf(1), r: 226, g: 58, b: 108}, // near gale and up
}

// ColorFor derives a particle's stroke color from its last-sampled wind and
// remaining-life fraction. Pure function: same inputs always yield the same
// RGBA. lifeFrac 1 is a fresh particle, 0 an expiring one; it drives opacity.
func ColorFor(w field.Wind, lifeFrac float64, scheme Scheme) color.RGBA {
	if lifeFrac < 0 {
		lifeFrac = 0
	} else if lifeFrac > 1 {
		lifeFrac = 1
	}
	alpha := uint8(math.Round(lifeFrac * 255))

	if scheme == SchemeDirection {
		r, g, b := hueToRGB(w.Direction)
		return color.RGBA{R: r, G: g, B: b, A: alpha}
	}

	for _, band := range speedBands {
		if w.Speed < band.max {
			return color.RGBA{R: band.r, G: band.g, B: band.b, A: alpha}
		}
	}
	last := speedBands[len(speedBands)-1]
	return color.RGBA{R: last.r, G: last.g, B: last.b, A: alpha}
}

// hueToRGB maps a direction in degrees onto a muted hue wheel.
func hueToRGB(deg float64) (uint8, uint8, uint8) {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}

	const s, v = 0.65, 0.92
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8(math.Round((r + m) * 255)),
		uint8(math.Round((g + m) * 255)),
		uint8(math.Round((b + m) * 255))
}
