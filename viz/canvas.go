package viz

import "image/color"

// Canvas is the trail drawing surface owned by the engine. The renderer
// package backs it with a raylib render texture; tests use a recording fake.
type Canvas interface {
	// Clear fills the surface opaquely with the given color.
	Clear(c color.RGBA)

	// Fade overlays the whole surface with a translucent fill; repeated each
	// frame it decays old trails into the background.
	Fade(c color.RGBA)

	// Line strokes a segment from (x1, y1) to (x2, y2).
	Line(x1, y1, x2, y2, width float32, c color.RGBA)

	// Resize recreates the surface at the given pixel dimensions.
	Resize(width, height int)
}

// NoopCanvas discards all draw calls. Used in headless mode.
type NoopCanvas struct{}

func (NoopCanvas) Clear(color.RGBA)                                  {}
func (NoopCanvas) Fade(color.RGBA)                                   {}
func (NoopCanvas) Line(_, _, _, _, _ float32, _ color.RGBA)          {}
func (NoopCanvas) Resize(int, int)                                   {}
